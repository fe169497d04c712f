package history

import (
	"time"
)

// Outcome values recorded for policy operations. They match the executor's
// result statuses plus the cancellation case.
const (
	OutcomeOK           = "ok"
	OutcomeNotSupported = "not_supported"
	OutcomeFailed       = "failed"
	OutcomeCancelled    = "cancelled"
)

// Operation names recorded for policy operations.
const (
	OperationGet = "get"
	OperationSet = "set"
)

// Record is one entry in the policy-change history.
type Record struct {
	// ID is the unique identifier of the record (a UUID).
	ID string

	// PolicyName is the policy the operation acted on.
	PolicyName string

	// Operation is what was attempted ("get" or "set").
	Operation string

	// PreviousEnabled is the enabled flag before a set, when known.
	PreviousEnabled *bool

	// NewEnabled is the enabled flag after a set, when known.
	NewEnabled *bool

	// Outcome classifies how the operation ended.
	Outcome string

	// ErrCode is the failure code for failed outcomes, empty otherwise.
	ErrCode string

	// Timestamp is when the operation finished.
	Timestamp time.Time
}

// Filter narrows a List call. Zero values are no-ops: an empty PolicyName
// matches every policy and zero times are open bounds.
type Filter struct {
	// PolicyName restricts results to one policy.
	PolicyName string

	// Since is the inclusive lower time bound.
	Since time.Time

	// Until is the exclusive upper time bound.
	Until time.Time

	// Limit caps the number of returned records. 0 means no cap.
	Limit int
}

// matches reports whether r passes f, ignoring Limit.
func (f Filter) matches(r *Record) bool {
	if f.PolicyName != "" && r.PolicyName != f.PolicyName {
		return false
	}
	if !f.Since.IsZero() && r.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !r.Timestamp.Before(f.Until) {
		return false
	}
	return true
}
