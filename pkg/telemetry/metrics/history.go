package metrics

import (
	"github.com/jpicklyk/knox-core/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HistoryMetrics tracks metrics for the policy-change history.
//
// Metrics:
//   - knox_history_records_total: Appended history records by outcome
//   - knox_history_append_failures_total: Records dropped because the store failed
//   - knox_history_prune_runs_total: Retention prune passes
//   - knox_history_prune_deleted_total: Records deleted by retention pruning
type HistoryMetrics struct {
	// Appended records by outcome
	recordsTotal *prometheus.CounterVec

	// Records dropped on store failure
	appendFailuresTotal prometheus.Counter

	// Prune passes
	pruneRunsTotal prometheus.Counter

	// Records deleted by pruning
	pruneDeletedTotal prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics with the provided
// registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "records_total",
				Help:      "Total number of appended history records",
			},
			[]string{"outcome"},
		),

		appendFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "append_failures_total",
				Help:      "Total number of history records dropped because the store failed",
			},
		),

		pruneRunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "prune_runs_total",
				Help:      "Total number of retention prune passes",
			},
		),

		pruneDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "prune_deleted_total",
				Help:      "Total number of history records deleted by retention pruning",
			},
		),
	}

	registry.MustRegister(
		hm.recordsTotal,
		hm.appendFailuresTotal,
		hm.pruneRunsTotal,
		hm.pruneDeletedTotal,
	)

	return hm
}

// RecordAppend records an appended history record.
//
// Parameters:
//   - outcome: Record outcome ("ok", "not_supported", "failed", "cancelled")
func (hm *HistoryMetrics) RecordAppend(outcome string) {
	hm.recordsTotal.WithLabelValues(outcome).Inc()
}

// RecordAppendFailure records a history record dropped on store failure.
func (hm *HistoryMetrics) RecordAppendFailure() {
	hm.appendFailuresTotal.Inc()
}

// RecordPrune records a completed prune pass.
//
// Parameters:
//   - deleted: Number of records the pass removed
func (hm *HistoryMetrics) RecordPrune(deleted int64) {
	hm.pruneRunsTotal.Inc()
	hm.pruneDeletedTotal.Add(float64(deleted))
}
