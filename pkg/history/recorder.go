package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpicklyk/knox-core/pkg/telemetry/logging"
	"github.com/jpicklyk/knox-core/pkg/telemetry/metrics"
)

const (
	// recorderBuffer is the size of the async write channel buffer.
	recorderBuffer = 256

	// recorderWriteTimeout bounds a single storage write.
	recorderWriteTimeout = 5 * time.Second
)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the logger used by the recorder.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the collector recording append outcomes.
func WithMetrics(collector *metrics.Collector) RecorderOption {
	return func(r *Recorder) {
		r.metrics = collector
	}
}

// Recorder writes policy operation records to a history store.
// Records are written asynchronously so recording never blocks or fails a
// policy operation: when the store rejects a write or the buffer is full
// the record is logged and dropped.
//
// A nil Recorder is safe to use and records nothing.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Collector

	records   chan *Record
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder creates a recorder writing to store and starts its background
// writer. Close releases it.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:   store,
		logger:  slog.Default().With("component", "history.recorder"),
		records: make(chan *Record, recorderBuffer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// RecordExecution records the outcome of a policy operation. The signature
// matches the executor's recorder hook, so a Recorder method value can be
// passed to it directly.
func (r *Recorder) RecordExecution(ctx context.Context, policyName, operation, outcome, errCode string) {
	if r == nil {
		return
	}

	rec := &Record{
		ID:         uuid.New().String(),
		PolicyName: policyName,
		Operation:  operation,
		Outcome:    outcome,
		ErrCode:    errCode,
		Timestamp:  time.Now().UTC(),
	}
	r.enqueue(ctx, rec)
}

// RecordStateChange records a completed toggle transition, including the
// previous and new enabled flags.
func (r *Recorder) RecordStateChange(ctx context.Context, policyName string, previous, next bool) {
	if r == nil {
		return
	}

	prev, nxt := previous, next
	rec := &Record{
		ID:              uuid.New().String(),
		PolicyName:      policyName,
		Operation:       OperationSet,
		PreviousEnabled: &prev,
		NewEnabled:      &nxt,
		Outcome:         OutcomeOK,
		Timestamp:       time.Now().UTC(),
	}
	r.enqueue(ctx, rec)
}

// Close gracefully shuts down the recorder by draining the async channel
// and waiting for pending writes to complete.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}

	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
	return nil
}

// enqueue hands a record to the background writer without blocking.
func (r *Recorder) enqueue(ctx context.Context, rec *Record) {
	select {
	case r.records <- rec:
		args := []any{"record_id", rec.ID, "policy", rec.PolicyName, "outcome", rec.Outcome}
		if id := logging.GetOperationID(ctx); id != "" {
			args = append(args, "operation_id", id)
		}
		r.logger.Debug("history record enqueued", args...)
	case <-r.done:
		r.logger.Warn("history recorder closed, dropping record",
			"record_id", rec.ID,
			"policy", rec.PolicyName,
		)
	default:
		r.logger.Warn("history record buffer full, dropping record",
			"record_id", rec.ID,
			"policy", rec.PolicyName,
		)
		r.metrics.RecordHistoryAppendFailure()
	}
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.records:
			r.writeRecord(rec)

		case <-r.done:
			// Drain remaining records from the channel before exit
			for {
				select {
				case rec := <-r.records:
					r.writeRecord(rec)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage. The write uses its own
// context so records of cancelled operations still land.
func (r *Recorder) writeRecord(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), recorderWriteTimeout)
	defer cancel()

	if err := r.store.Append(ctx, rec); err != nil {
		r.logger.Warn("history append failed, dropping record",
			"record_id", rec.ID,
			"policy", rec.PolicyName,
			"error", err,
		)
		r.metrics.RecordHistoryAppendFailure()
		return
	}

	r.metrics.RecordHistoryAppend(rec.Outcome)
	r.logger.Debug("history record stored",
		"record_id", rec.ID,
		"policy", rec.PolicyName,
		"outcome", rec.Outcome,
	)
}
