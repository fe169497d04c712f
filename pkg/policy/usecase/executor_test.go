package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"
	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/registry"
	"github.com/jpicklyk/knox-core/pkg/telemetry/logging"
)

func TestExecute_OK(t *testing.T) {
	e := newTestExecutor()

	res, err := Execute(context.Background(), e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			return 42, nil
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsOK() {
		t.Fatalf("Status() = %q, want %q", res.Status(), StatusOK)
	}
	if value, _ := res.Get(); value != 42 {
		t.Errorf("Get() = %d, want 42", value)
	}
}

func TestExecute_NilExecutor(t *testing.T) {
	res, err := Execute(context.Background(), nil, "wifi", OperationGet,
		func(ctx context.Context) (string, error) {
			return "on", nil
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if value, ok := res.Get(); !ok || value != "on" {
		t.Errorf("Get() = (%q, %v), want (%q, true)", value, ok, "on")
	}
}

func TestExecute_UnexpectedError(t *testing.T) {
	e := newTestExecutor()
	cause := errors.New("radio stack crashed")

	res, err := Execute(context.Background(), e, "wifi", OperationSet,
		func(ctx context.Context) (int, error) {
			return 0, cause
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsFailure() {
		t.Fatalf("Status() = %q, want %q", res.Status(), StatusFailed)
	}
	if res.ErrCode() != policy.ErrCodeUnexpected {
		t.Errorf("ErrCode() = %q, want %q", res.ErrCode(), policy.ErrCodeUnexpected)
	}
	if !errors.Is(res.Err(), cause) {
		t.Errorf("Err() = %v, want chain containing the original cause", res.Err())
	}
}

func TestExecute_NotSupportedSentinel(t *testing.T) {
	e := newTestExecutor()

	res, err := Execute(context.Background(), e, "dual-sim", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, fmt.Errorf("checking sim slots: %w", policy.ErrNotSupported)
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsNotSupported() {
		t.Fatalf("Status() = %q, want %q", res.Status(), StatusNotSupported)
	}
	if res.IsFailure() {
		t.Error("IsFailure() = true, want false for a not-supported result")
	}
}

func TestExecute_StateErrorPassThrough(t *testing.T) {
	e := newTestExecutor()
	stateErr := policy.NewStateError(policy.ErrCodePermissionDenied, "admin required")

	res, err := Execute(context.Background(), e, "kiosk", OperationSet,
		func(ctx context.Context) (int, error) {
			return 0, stateErr
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsFailure() {
		t.Fatalf("Status() = %q, want %q", res.Status(), StatusFailed)
	}
	if res.Err() != stateErr {
		t.Errorf("Err() = %v, want the handler's state error unchanged", res.Err())
	}
}

func TestExecute_StateErrorNotSupported(t *testing.T) {
	e := newTestExecutor()

	res, err := Execute(context.Background(), e, "nfc", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, policy.NewStateError(policy.ErrCodeNotSupported, "no nfc chip")
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsNotSupported() {
		t.Errorf("Status() = %q, want %q", res.Status(), StatusNotSupported)
	}
}

func TestExecute_PermissionSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "policy sentinel", err: fmt.Errorf("set failed: %w", policy.ErrPermissionDenied)},
		{name: "os permission", err: fmt.Errorf("writing setting: %w", os.ErrPermission)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor()

			res, err := Execute(context.Background(), e, "camera", OperationSet,
				func(ctx context.Context) (int, error) {
					return 0, tt.err
				})

			if err != nil {
				t.Fatalf("Execute() error = %v, want nil", err)
			}
			if res.ErrCode() != policy.ErrCodePermissionDenied {
				t.Errorf("ErrCode() = %q, want %q", res.ErrCode(), policy.ErrCodePermissionDenied)
			}
		})
	}
}

func TestExecute_NotFoundError(t *testing.T) {
	e := newTestExecutor()

	res, err := Execute(context.Background(), e, "ghost", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, &registry.NotFoundError{PolicyName: "ghost"}
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsFailure() {
		t.Fatalf("Status() = %q, want %q", res.Status(), StatusFailed)
	}
	if res.ErrCode() != policy.ErrCodeNotFound {
		t.Errorf("ErrCode() = %q, want %q", res.ErrCode(), policy.ErrCodeNotFound)
	}
}

func TestExecute_Panic(t *testing.T) {
	e := newTestExecutor()

	res, err := Execute(context.Background(), e, "wifi", OperationSet,
		func(ctx context.Context) (int, error) {
			panic("nil driver handle")
		})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsFailure() {
		t.Fatalf("Status() = %q, want %q", res.Status(), StatusFailed)
	}
	if res.ErrCode() != policy.ErrCodeUnexpected {
		t.Errorf("ErrCode() = %q, want %q", res.ErrCode(), policy.ErrCodeUnexpected)
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	e := newTestExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Execute(ctx, e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if res.IsOK() || res.IsNotSupported() || res.IsFailure() {
		t.Errorf("result = %+v, want zero value on cancellation", res)
	}
}

func TestExecute_CancellationMidFlight(t *testing.T) {
	e := newTestExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	_, err := Execute(ctx, e, "wifi", OperationSet,
		func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecute_BodyReturnedCancellation(t *testing.T) {
	e := newTestExecutor()

	// The body surfaces a cancellation it hit internally even though the
	// caller's context is still live.
	res, err := Execute(context.Background(), e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, fmt.Errorf("reading state: %w", context.Canceled)
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want chain containing context.Canceled", err)
	}
	if res.IsFailure() {
		t.Error("cancellation was folded into a failed result")
	}
}

func TestExecute_ErrorMapper(t *testing.T) {
	driverErr := errors.New("driver not loaded")
	e := New(nil,
		WithLogger(logging.Discard()),
		WithErrorMapper(func(err error) (*policy.StateError, bool) {
			if errors.Is(err, driverErr) {
				return policy.WrapStateError(policy.ErrCodeNotSupported, "driver missing", err), true
			}
			return nil, false
		}),
	)

	res, err := Execute(context.Background(), e, "fingerprint", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, driverErr
		})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !res.IsNotSupported() {
		t.Errorf("mapped Status() = %q, want %q", res.Status(), StatusNotSupported)
	}

	// Unmapped errors fall through to the default classification.
	res, err = Execute(context.Background(), e, "fingerprint", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, errors.New("something else")
		})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if res.ErrCode() != policy.ErrCodeUnexpected {
		t.Errorf("fallback ErrCode() = %q, want %q", res.ErrCode(), policy.ErrCodeUnexpected)
	}
}

func TestExecute_ErrorMapperCannotRemapCancellation(t *testing.T) {
	mapperCalled := false
	e := New(nil,
		WithLogger(logging.Discard()),
		WithErrorMapper(func(err error) (*policy.StateError, bool) {
			mapperCalled = true
			return policy.NewStateError(policy.ErrCodePermissionDenied, "remapped"), true
		}),
	)

	_, err := Execute(context.Background(), e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			return 0, context.Canceled
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if mapperCalled {
		t.Error("error mapper ran on a cancellation error")
	}
}

func TestExecute_MaxConcurrent(t *testing.T) {
	e := New(&config.ExecutorConfig{MaxConcurrent: 1}, WithLogger(logging.Discard()))

	gate := make(chan struct{})
	started := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		_, err := Execute(context.Background(), e, "slow", OperationSet,
			func(ctx context.Context) (int, error) {
				close(started)
				<-gate
				return 1, nil
			})
		firstDone <- err
	}()
	<-started

	// The single slot is taken, so a second execution times out waiting.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Execute(ctx, e, "blocked", OperationGet,
		func(ctx context.Context) (int, error) {
			return 2, nil
		})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second Execute() error = %v, want context.DeadlineExceeded", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first Execute() error = %v, want nil", err)
	}

	// The slot is free again.
	res, err := Execute(context.Background(), e, "after", OperationGet,
		func(ctx context.Context) (int, error) {
			return 3, nil
		})
	if err != nil {
		t.Fatalf("third Execute() error = %v, want nil", err)
	}
	if value, _ := res.Get(); value != 3 {
		t.Errorf("third Get() = %d, want 3", value)
	}
}

func TestExecute_DefaultTimeout(t *testing.T) {
	e := New(&config.ExecutorConfig{DefaultTimeout: 50 * time.Millisecond},
		WithLogger(logging.Discard()))

	_, err := Execute(context.Background(), e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("operation context carries no deadline")
			}
			<-ctx.Done()
			return 0, ctx.Err()
		})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Execute() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestExecute_CallerDeadlineKept(t *testing.T) {
	e := New(&config.ExecutorConfig{DefaultTimeout: 10 * time.Second},
		WithLogger(logging.Discard()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Execute(ctx, e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Execute() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("execution ran %v, the caller deadline was not kept", elapsed)
	}
}

func TestExecute_Recorder(t *testing.T) {
	var mu sync.Mutex
	type recorded struct {
		policyName, operation, outcome, errCode string
	}
	var records []recorded

	e := New(nil,
		WithLogger(logging.Discard()),
		WithRecorder(func(ctx context.Context, policyName, operation, outcome, errCode string) {
			if logging.GetOperationID(ctx) == "" {
				t.Error("recorder context carries no operation id")
			}
			mu.Lock()
			records = append(records, recorded{policyName, operation, outcome, errCode})
			mu.Unlock()
		}),
	)

	if _, err := Execute(context.Background(), e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("ok Execute() error = %v, want nil", err)
	}
	if _, err := Execute(context.Background(), e, "camera", OperationSet,
		func(ctx context.Context) (int, error) { return 0, policy.ErrPermissionDenied }); err != nil {
		t.Fatalf("failed Execute() error = %v, want nil", err)
	}
	if _, err := Execute(context.Background(), e, "nfc", OperationGet,
		func(ctx context.Context) (int, error) { return 0, policy.ErrNotSupported }); err != nil {
		t.Fatalf("not-supported Execute() error = %v, want nil", err)
	}

	want := []recorded{
		{"wifi", OperationGet, "ok", ""},
		{"camera", OperationSet, "failed", string(policy.ErrCodePermissionDenied)},
		{"nfc", OperationGet, "not_supported", string(policy.ErrCodeNotSupported)},
	}
	mu.Lock()
	defer mu.Unlock()
	if len(records) != len(want) {
		t.Fatalf("recorded %d executions, want %d", len(records), len(want))
	}
	for i, w := range want {
		if records[i] != w {
			t.Errorf("records[%d] = %+v, want %+v", i, records[i], w)
		}
	}
}

func TestExecute_RecorderOnCancellation(t *testing.T) {
	outcomes := make(chan string, 1)
	e := New(nil,
		WithLogger(logging.Discard()),
		WithRecorder(func(ctx context.Context, policyName, operation, outcome, errCode string) {
			outcomes <- outcome
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, e, "wifi", OperationGet,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}

	select {
	case outcome := <-outcomes:
		if outcome != "cancelled" {
			t.Errorf("recorded outcome = %q, want %q", outcome, "cancelled")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no execution recorded after cancellation")
	}
}

func TestRun_UseCaseFunc(t *testing.T) {
	e := newTestExecutor()
	double := UseCaseFunc[int, int](func(ctx context.Context, params int) (int, error) {
		return params * 2, nil
	})

	res, err := Run(context.Background(), e, "volume", OperationSet, double, 21)

	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if value, _ := res.Get(); value != 42 {
		t.Errorf("Get() = %d, want 42", value)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode policy.ErrorCode
	}{
		{
			name:     "state error passes through",
			err:      policy.NewStateError(policy.ErrCodeTypeMismatch, "wrong state type"),
			wantCode: policy.ErrCodeTypeMismatch,
		},
		{
			name:     "not supported sentinel",
			err:      policy.ErrNotSupported,
			wantCode: policy.ErrCodeNotSupported,
		},
		{
			name:     "permission sentinel",
			err:      policy.ErrPermissionDenied,
			wantCode: policy.ErrCodePermissionDenied,
		},
		{
			name:     "os permission",
			err:      os.ErrPermission,
			wantCode: policy.ErrCodePermissionDenied,
		},
		{
			name:     "registry not found",
			err:      &registry.NotFoundError{PolicyName: "ghost"},
			wantCode: policy.ErrCodeNotFound,
		},
		{
			name:     "anything else",
			err:      errors.New("boom"),
			wantCode: policy.ErrCodeUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Classify() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func newTestExecutor() *Executor {
	return New(nil, WithLogger(logging.Discard()))
}
