package grouping

import (
	"errors"
	"fmt"
)

// Grouping configuration sentinel errors.
var (
	// ErrEmptyGroupID indicates a group definition without an ID.
	ErrEmptyGroupID = errors.New("group id cannot be empty")

	// ErrEmptyAssignment indicates an assignment without a policy name.
	ErrEmptyAssignment = errors.New("assignment policy name cannot be empty")
)

// DuplicateGroupError indicates two group definitions share an ID.
type DuplicateGroupError struct {
	// GroupID is the ID that appeared more than once.
	GroupID string
}

// Error implements the error interface.
func (e *DuplicateGroupError) Error() string {
	return fmt.Sprintf("duplicate group id %q in grouping configuration", e.GroupID)
}

// UnknownGroupError indicates an assignment references a group that is not
// defined in the configuration.
type UnknownGroupError struct {
	// PolicyName is the assigned policy.
	PolicyName string

	// GroupID is the undefined group the policy was assigned to.
	GroupID string
}

// Error implements the error interface.
func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("policy %q assigned to undefined group %q", e.PolicyName, e.GroupID)
}
