package usecase

import (
	"context"
)

// UseCase is the adapter-facing contract for a single policy operation.
// Implementations perform the actual work; the Executor supplies dispatch,
// cancellation and failure mapping around Run.
type UseCase[P, R any] interface {
	// Run performs the operation for params. Errors are classified by the
	// Executor; context errors propagate to the caller unmapped.
	Run(ctx context.Context, params P) (R, error)
}

// UseCaseFunc adapts a plain function to the UseCase interface.
type UseCaseFunc[P, R any] func(ctx context.Context, params P) (R, error)

// Run calls f.
func (f UseCaseFunc[P, R]) Run(ctx context.Context, params P) (R, error) {
	return f(ctx, params)
}

// Run executes uc through e with the given params. policyName and
// operation label the execution in logs, metrics and history.
func Run[P, R any](ctx context.Context, e *Executor, policyName, operation string, uc UseCase[P, R], params P) (Result[R], error) {
	return Execute(ctx, e, policyName, operation, func(ctx context.Context) (R, error) {
		return uc.Run(ctx, params)
	})
}
