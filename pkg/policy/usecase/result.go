package usecase

import (
	"github.com/jpicklyk/knox-core/pkg/policy"
)

// Status classifies the outcome of an executed policy operation.
// Values are stable strings used as metric labels and history outcomes.
type Status string

const (
	// StatusOK indicates the operation completed and produced a value.
	StatusOK Status = "ok"

	// StatusNotSupported indicates the current device cannot perform the
	// operation. Not a failure: callers should render the policy as
	// unavailable, not broken.
	StatusNotSupported Status = "not_supported"

	// StatusFailed indicates the operation failed. The result carries a
	// StateError describing why.
	StatusFailed Status = "failed"
)

// Result is the typed outcome of a policy operation. Exactly one shape is
// populated per status: a StatusOK result carries a value, a StatusFailed
// result carries a StateError, and a StatusNotSupported result may carry
// the StateError that marked the operation unsupported.
//
// Cancellation is never expressed as a Result. An executed operation whose
// context ends returns the context error directly instead.
type Result[T any] struct {
	status Status
	value  T
	err    *policy.StateError
}

// OK creates a successful result carrying value.
func OK[T any](value T) Result[T] {
	return Result[T]{status: StatusOK, value: value}
}

// NotSupported creates a result marking the operation unsupported on the
// current device.
func NotSupported[T any]() Result[T] {
	return Result[T]{status: StatusNotSupported}
}

// Fail creates a failed result carrying err.
func Fail[T any](err *policy.StateError) Result[T] {
	return Result[T]{status: StatusFailed, err: err}
}

// fromStateError derives the result shape from an error classification:
// a not_supported code yields a StatusNotSupported result, every other
// code a StatusFailed one. The StateError is retained either way.
func fromStateError[T any](err *policy.StateError) Result[T] {
	if err.Code == policy.ErrCodeNotSupported {
		return Result[T]{status: StatusNotSupported, err: err}
	}
	return Result[T]{status: StatusFailed, err: err}
}

// Status returns the outcome classification.
func (r Result[T]) Status() Status { return r.status }

// IsOK reports whether the operation completed with a value.
func (r Result[T]) IsOK() bool { return r.status == StatusOK }

// IsNotSupported reports whether the device cannot perform the operation.
func (r Result[T]) IsNotSupported() bool { return r.status == StatusNotSupported }

// IsFailure reports whether the operation failed. A not-supported result
// is not a failure.
func (r Result[T]) IsFailure() bool { return r.status == StatusFailed }

// Get returns the value and whether one is present. Only StatusOK results
// carry a value.
func (r Result[T]) Get() (T, bool) {
	if r.status != StatusOK {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the StateError carried by a failed or not-supported result,
// or nil for StatusOK.
func (r Result[T]) Err() *policy.StateError { return r.err }

// ErrCode returns the error code of the carried StateError, or the empty
// code when the result has none.
func (r Result[T]) ErrCode() policy.ErrorCode {
	if r.err == nil {
		return ""
	}
	return r.err.Code
}
