package metrics

import (
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExecutorMetrics tracks metrics for policy use-case execution.
//
// Metrics:
//   - knox_executor_executions_total: Completed executions by policy, operation and outcome
//   - knox_executor_execution_duration_seconds: Execution duration by operation
//   - knox_executor_inflight: Currently running executions
type ExecutorMetrics struct {
	// Completed executions
	executionsTotal *prometheus.CounterVec

	// Execution duration histogram
	executionDuration *prometheus.HistogramVec

	// Currently running executions
	inflight prometheus.Gauge
}

// NewExecutorMetrics creates and registers executor metrics with the provided
// registry.
func NewExecutorMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExecutorMetrics {
	em := &ExecutorMetrics{
		executionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "executor",
				Name:      "executions_total",
				Help:      "Total number of completed policy executions",
			},
			[]string{"policy", "operation", "outcome"},
		),

		executionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "executor",
				Name:      "execution_duration_seconds",
				Help:      "Duration of policy executions in seconds",
				// Handler calls do real I/O: 1ms to ~8s
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"operation"},
		),

		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "executor",
				Name:      "inflight",
				Help:      "Number of currently running policy executions",
			},
		),
	}

	registry.MustRegister(
		em.executionsTotal,
		em.executionDuration,
		em.inflight,
	)

	return em
}

// RecordExecution records a completed policy execution.
//
// Parameters:
//   - policyName: Policy the execution operated on
//   - operation: Operation kind ("get_state", "set_state", or a custom name)
//   - outcome: "ok", "not_supported", "failed", "cancelled"
//   - duration: Wall-clock execution time
//
// Example:
//
//	em.RecordExecution("wifi-restriction", "set_state", "ok", 12*time.Millisecond)
func (em *ExecutorMetrics) RecordExecution(policyName, operation, outcome string, duration time.Duration) {
	em.executionsTotal.WithLabelValues(policyName, operation, outcome).Inc()
	em.executionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ExecutionStarted records the start of an execution.
func (em *ExecutorMetrics) ExecutionStarted() {
	em.inflight.Inc()
}

// ExecutionFinished records the end of an execution.
func (em *ExecutorMetrics) ExecutionFinished() {
	em.inflight.Dec()
}
