package usecase

import (
	"context"

	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/registry"
)

// GetPolicyState reads the current state of the policy identified by key
// through e. An unregistered policy (or one whose handler carries a
// different state type) yields a failed result with code not_found.
func GetPolicyState[T policy.State](ctx context.Context, e *Executor, reg *registry.Registry, key policy.Key[T]) (Result[T], error) {
	return Execute(ctx, e, key.Name(), OperationGet, func(ctx context.Context) (T, error) {
		handler, ok := registry.Handler(reg, key)
		if !ok {
			var zero T
			return zero, &registry.NotFoundError{PolicyName: key.Name()}
		}
		return handler.GetState(ctx)
	})
}

// SetPolicyState applies state to the policy identified by key through e.
// On success the result carries the state that was applied.
func SetPolicyState[T policy.State](ctx context.Context, e *Executor, reg *registry.Registry, key policy.Key[T], state T) (Result[T], error) {
	return Execute(ctx, e, key.Name(), OperationSet, func(ctx context.Context) (T, error) {
		handler, ok := registry.Handler(reg, key)
		if !ok {
			var zero T
			return zero, &registry.NotFoundError{PolicyName: key.Name()}
		}
		if err := handler.SetState(ctx, state); err != nil {
			var zero T
			return zero, err
		}
		return state, nil
	})
}
