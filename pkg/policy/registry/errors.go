package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog replacement validation.
var (
	// ErrNilComponents indicates ReplaceAll was called with a nil slice.
	// An empty catalog is expressed with an empty, non-nil slice.
	ErrNilComponents = errors.New("components slice cannot be nil")

	// ErrNilComponent indicates a nil entry in the replacement set.
	ErrNilComponent = errors.New("component cannot be nil")
)

// NotFoundError indicates a mutation addressed a policy that is not in the
// catalog. Read paths never produce it; lookups report absence through an
// ok-bool instead.
type NotFoundError struct {
	// PolicyName is the name that was not found.
	PolicyName string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("policy %q not found in catalog", e.PolicyName)
}

// DuplicateNameError indicates a replacement set contained two components
// with the same policy name. The catalog rejects the whole set rather than
// letting one registration shadow another.
type DuplicateNameError struct {
	// PolicyName is the name that appeared more than once.
	PolicyName string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate policy name %q in replacement set", e.PolicyName)
}
