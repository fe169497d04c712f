package policy

import "context"

// Handler is the per-policy adapter that performs the actual get and set of
// a policy's live state. Handlers are supplied externally per component; the
// catalog never implements policy logic itself and treats handler calls as
// opaque, possibly-failing, possibly-blocking operations. Handler calls are
// the only operations in the catalog that may block or perform I/O.
type Handler[T State] interface {
	// GetState reads the policy's current state.
	GetState(ctx context.Context) (T, error)

	// SetState applies a new state.
	SetState(ctx context.Context, state T) error
}

// HandlerFuncs adapts plain functions to the Handler interface.
// Either function may be nil, in which case the corresponding operation
// fails with ErrNotSupported.
type HandlerFuncs[T State] struct {
	// Get reads the current state.
	Get func(ctx context.Context) (T, error)

	// Set applies a new state.
	Set func(ctx context.Context, state T) error
}

// GetState invokes the Get function.
func (h HandlerFuncs[T]) GetState(ctx context.Context) (T, error) {
	if h.Get == nil {
		var zero T
		return zero, ErrNotSupported
	}
	return h.Get(ctx)
}

// SetState invokes the Set function.
func (h HandlerFuncs[T]) SetState(ctx context.Context, state T) error {
	if h.Set == nil {
		return ErrNotSupported
	}
	return h.Set(ctx, state)
}
