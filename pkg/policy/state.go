package policy

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of a policy state failure.
// Codes are stable strings so they can be logged, exported as metric labels,
// and rendered by callers without string-matching error messages.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the referenced policy or handler is not
	// registered.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeNotSupported indicates the operation exists but the current
	// device or runtime cannot perform it. Not a failure: callers should
	// render the policy as unavailable rather than broken.
	ErrCodeNotSupported ErrorCode = "not_supported"

	// ErrCodePermissionDenied indicates the caller lacks the authorization
	// required by the underlying handler.
	ErrCodePermissionDenied ErrorCode = "permission_denied"

	// ErrCodeTypeMismatch indicates a state value of the wrong concrete type
	// was passed to a handler.
	ErrCodeTypeMismatch ErrorCode = "type_mismatch"

	// ErrCodeUnexpected is the catch-all for handler failures that do not
	// fit a more specific code.
	ErrCodeUnexpected ErrorCode = "unexpected"
)

// Sentinel errors handlers may return (or wrap) to signal a specific
// failure class without constructing a StateError themselves.
var (
	// ErrNotSupported marks an operation the current device cannot perform.
	ErrNotSupported = errors.New("operation not supported on this device")

	// ErrPermissionDenied marks a missing-authorization failure.
	ErrPermissionDenied = errors.New("permission denied")
)

// StateError describes a policy state failure. It is carried both inside
// State values (a policy can hold an error as data) and in executor results.
type StateError struct {
	// Code classifies the failure.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// NewStateError creates a StateError with the given code and message.
func NewStateError(code ErrorCode, message string) *StateError {
	return &StateError{Code: code, Message: message}
}

// WrapStateError creates a StateError wrapping an underlying cause.
func WrapStateError(code ErrorCode, message string, cause error) *StateError {
	return &StateError{Code: code, Message: message, Cause: cause}
}

// Error returns the error message.
func (e *StateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StateError) Unwrap() error {
	return e.Cause
}

// State is the immutable value describing a policy's current condition.
//
// Implementations must be value types: WithEnabled and WithError return a
// new instance of the same concrete variant and never mutate the receiver.
// A state with Supported() == false is a valid value describing a policy the
// device cannot change, not an error condition.
type State interface {
	// Enabled reports whether the policy is currently active.
	Enabled() bool

	// Supported reports whether the current device supports the policy.
	Supported() bool

	// Err returns the error attached to this state, or nil.
	Err() *StateError

	// WithEnabled returns a copy of this state with the enabled flag set.
	WithEnabled(enabled bool) State

	// WithError returns a copy of this state with the given error attached.
	WithError(err *StateError) State
}

// ToggleState is the canonical State for simple on/off policies.
// The zero value is disabled and unsupported; use NewToggleState for a
// supported toggle.
type ToggleState struct {
	enabled   bool
	supported bool
	err       *StateError
}

// NewToggleState creates a supported toggle state.
func NewToggleState(enabled bool) ToggleState {
	return ToggleState{enabled: enabled, supported: true}
}

// NewUnsupportedToggleState creates a toggle state marked unsupported.
// The enabled flag records the nominal value even though the device cannot
// change it.
func NewUnsupportedToggleState(enabled bool) ToggleState {
	return ToggleState{enabled: enabled, supported: false}
}

// Enabled reports whether the toggle is on.
func (s ToggleState) Enabled() bool { return s.enabled }

// Supported reports whether the device supports this policy.
func (s ToggleState) Supported() bool { return s.supported }

// Err returns the error attached to this state, or nil.
func (s ToggleState) Err() *StateError { return s.err }

// WithEnabled returns a copy with the enabled flag set.
func (s ToggleState) WithEnabled(enabled bool) State {
	s.enabled = enabled
	return s
}

// WithError returns a copy with the given error attached.
func (s ToggleState) WithError(err *StateError) State {
	s.err = err
	return s
}

// WithSupported returns a copy with the supported flag set.
func (s ToggleState) WithSupported(supported bool) ToggleState {
	s.supported = supported
	return s
}

// String returns a compact description for logging.
func (s ToggleState) String() string {
	switch {
	case !s.supported:
		return "unsupported"
	case s.enabled:
		return "enabled"
	default:
		return "disabled"
	}
}
