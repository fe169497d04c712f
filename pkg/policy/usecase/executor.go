package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/jpicklyk/knox-core/pkg/config"
	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/registry"
	"github.com/jpicklyk/knox-core/pkg/telemetry/logging"
	"github.com/jpicklyk/knox-core/pkg/telemetry/metrics"
)

// Operation names recorded with every execution.
const (
	OperationGet = "get"
	OperationSet = "set"
)

const outcomeCancelled = "cancelled"

// ErrorMapper classifies a handler error into a StateError. Returning
// false (or a nil error) falls through to the default classification.
// Context cancellation is handled before the mapper runs and cannot be
// remapped.
type ErrorMapper func(err error) (*policy.StateError, bool)

// RecordFunc receives one history notification per finished execution.
// errCode is empty for ok and cancelled outcomes. Implementations must not
// block; the executor calls them synchronously on the operation path.
type RecordFunc func(ctx context.Context, policyName, operation, outcome, errCode string)

// Executor runs policy operations with uniform dispatch and failure
// handling so individual handlers do not re-implement the error taxonomy.
//
// Each execution runs the operation body in its own goroutine and races it
// against the caller's context. Handler errors are classified into typed
// results; context cancellation is returned to the caller as an error,
// never folded into a Result.
type Executor struct {
	sem     chan struct{}
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Collector
	mapper  ErrorMapper
	record  RecordFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for execution events. A nil logger is
// ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the collector receiving execution metrics.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Executor) {
		e.metrics = collector
	}
}

// WithErrorMapper installs a domain-specific error classification that
// runs before the default one.
func WithErrorMapper(mapper ErrorMapper) Option {
	return func(e *Executor) {
		e.mapper = mapper
	}
}

// WithRecorder installs a history callback invoked once per finished
// execution.
func WithRecorder(record RecordFunc) Option {
	return func(e *Executor) {
		e.record = record
	}
}

// New creates an Executor. A nil cfg means no concurrency limit and no
// default timeout. The default logger is slog.Default; metrics and history
// recording are off until wired with options.
func New(cfg *config.ExecutorConfig, opts ...Option) *Executor {
	e := &Executor{
		logger: slog.Default(),
	}
	if cfg != nil {
		if cfg.MaxConcurrent > 0 {
			e.sem = make(chan struct{}, cfg.MaxConcurrent)
		}
		if cfg.DefaultTimeout > 0 {
			e.timeout = cfg.DefaultTimeout
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs fn under e's dispatch rules and maps its outcome.
//
// The returned error is non-nil only for context cancellation, in which
// case it is ctx's error (or the cancellation error fn returned) verbatim
// and the Result is the zero value. Every other outcome, including handler
// failures and panics, is expressed in the Result.
//
// fn runs in its own goroutine. When ctx ends first, Execute returns
// immediately; fn keeps running until it observes ctx.Done, so operation
// bodies must honor their context.
//
// A context without a deadline is bounded by the executor's configured
// default timeout; hitting it surfaces as context.DeadlineExceeded like
// any other cancellation.
func Execute[R any](ctx context.Context, e *Executor, policyName, operation string, fn func(context.Context) (R, error)) (Result[R], error) {
	var zero Result[R]
	if e == nil {
		e = New(nil)
	}

	if logging.GetOperationID(ctx) == "" {
		ctx = logging.WithOperationID(ctx, uuid.New().String())
	}
	ctx = logging.WithPolicyName(ctx, policyName)

	// Callers that carry their own deadline keep it; everyone else gets
	// the configured per-operation bound.
	if e.timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}
	}

	if e.sem != nil {
		select {
		case e.sem <- struct{}{}:
			defer func() { <-e.sem }()
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	e.metrics.ExecutionStarted()
	start := time.Now()
	e.logger.DebugContext(ctx, "policy operation started",
		logArgs(ctx, operation)...)

	type outcome struct {
		value R
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				e.logger.ErrorContext(ctx, "panic in policy operation",
					logArgs(ctx, operation,
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())))...)
				done <- outcome{err: fmt.Errorf("panic in policy operation: %v", rec)}
			}
		}()
		value, err := fn(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		e.finish(ctx, policyName, operation, outcomeCancelled, "", start)
		return zero, ctx.Err()

	case out := <-done:
		if err := out.err; err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				e.finish(ctx, policyName, operation, outcomeCancelled, "", start)
				return zero, err
			}
			res := fromStateError[R](e.mapError(err))
			e.finish(ctx, policyName, operation, string(res.Status()), string(res.ErrCode()), start)
			return res, nil
		}
		e.finish(ctx, policyName, operation, string(StatusOK), "", start)
		return OK(out.value), nil
	}
}

// finish records metrics, history and the completion log line for one
// execution.
func (e *Executor) finish(ctx context.Context, policyName, operation, outcome, errCode string, start time.Time) {
	duration := time.Since(start)
	e.metrics.ExecutionFinished()
	e.metrics.RecordExecution(policyName, operation, outcome, duration)

	if e.record != nil {
		e.record(ctx, policyName, operation, outcome, errCode)
	}

	switch outcome {
	case string(StatusFailed):
		e.logger.WarnContext(ctx, "policy operation failed",
			logArgs(ctx, operation,
				slog.String("code", errCode),
				slog.Duration("duration", duration))...)
	default:
		e.logger.DebugContext(ctx, "policy operation finished",
			logArgs(ctx, operation,
				slog.String("outcome", outcome),
				slog.Duration("duration", duration))...)
	}
}

// mapError runs the custom mapper, if any, before the default
// classification.
func (e *Executor) mapError(err error) *policy.StateError {
	if e.mapper != nil {
		if mapped, ok := e.mapper(err); ok && mapped != nil {
			return mapped
		}
	}
	return Classify(err)
}

// Classify maps a handler error to a StateError:
//
//   - a *policy.StateError anywhere in the chain is used as-is;
//   - policy.ErrNotSupported wraps become not_supported;
//   - policy.ErrPermissionDenied and os.ErrPermission wraps become
//     permission_denied;
//   - a *registry.NotFoundError becomes not_found;
//   - anything else becomes unexpected.
//
// The original error is retained as the StateError cause.
func Classify(err error) *policy.StateError {
	var stateErr *policy.StateError
	if errors.As(err, &stateErr) {
		return stateErr
	}
	if errors.Is(err, policy.ErrNotSupported) {
		return policy.WrapStateError(policy.ErrCodeNotSupported, "operation not supported", err)
	}
	if errors.Is(err, policy.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return policy.WrapStateError(policy.ErrCodePermissionDenied, "permission denied", err)
	}
	var notFound *registry.NotFoundError
	if errors.As(err, &notFound) {
		return policy.WrapStateError(policy.ErrCodeNotFound, "policy not found", err)
	}
	return policy.WrapStateError(policy.ErrCodeUnexpected, "policy operation failed", err)
}

// logArgs assembles slog arguments for one execution: the operation name,
// any extra attributes, and the identifiers carried in ctx.
func logArgs(ctx context.Context, operation string, extra ...any) []any {
	args := []any{slog.String("operation", operation)}
	args = append(args, extra...)
	return append(args, logging.ContextAttrs(ctx)...)
}
