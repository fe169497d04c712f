// Package usecase executes policy operations with uniform dispatch and
// failure handling.
//
// Handlers perform the actual device work and are allowed to fail in
// device-specific ways. The Executor wraps every invocation so callers see
// one taxonomy: a typed Result for completed operations and a plain
// context error for cancelled ones.
//
// # Results
//
// Result[T] has three statuses. StatusOK carries the operation value.
// StatusNotSupported means the device cannot perform the operation; it is
// deliberately not a failure so UIs can render an unavailable control
// instead of an error. StatusFailed carries a policy.StateError with a
// stable code (permission_denied, not_found, unexpected, ...).
//
// # Cancellation
//
// Cancellation is never folded into a Result. When the caller's context
// ends, or the operation body returns a context error, Execute returns
// that error as its second return value and the Result is the zero value:
//
//	res, err := usecase.Execute(ctx, exec, "wifi", usecase.OperationGet, body)
//	if err != nil {
//		return err // context.Canceled or context.DeadlineExceeded
//	}
//
// This rule is applied before any custom ErrorMapper and cannot be
// overridden.
//
// # Basic Usage
//
//	exec := usecase.New(&cfg.Executor,
//		usecase.WithLogger(logger),
//		usecase.WithMetrics(collector),
//	)
//
//	res, err := usecase.GetPolicyState(ctx, exec, reg, wifiKey)
//	if err != nil {
//		return err
//	}
//	switch {
//	case res.IsNotSupported():
//		// render as unavailable
//	case res.IsFailure():
//		// render res.Err()
//	default:
//		state, _ := res.Get()
//		// render state
//	}
//
// # Error Classification
//
// Classify maps handler errors to StateError codes: StateError values
// pass through, policy.ErrNotSupported wraps become not_supported,
// permission errors become permission_denied, registry lookups that miss
// become not_found and everything else becomes unexpected. WithErrorMapper
// installs a domain mapping that runs first; returning false falls back to
// the default.
//
// # Concurrency
//
// Each execution runs its body in a dedicated goroutine raced against the
// caller's context. ExecutorConfig.MaxConcurrent bounds how many bodies
// run at once; further executions wait for a slot or for their context,
// whichever comes first. ExecutorConfig.DefaultTimeout bounds executions
// whose caller context carries no deadline of its own.
package usecase
