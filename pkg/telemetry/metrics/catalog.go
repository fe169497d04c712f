package metrics

import (
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks metrics for the policy catalog.
//
// Metrics:
//   - knox_catalog_replaces_total: Total catalog replacements by status
//   - knox_catalog_replace_duration_seconds: Index rebuild duration
//   - knox_catalog_components: Number of registered components
//   - knox_catalog_queries_total: Catalog queries by kind
//   - knox_catalog_lookup_misses_total: Lookups that found nothing, by kind
type CatalogMetrics struct {
	// Total catalog replacements
	replacesTotal *prometheus.CounterVec

	// Index rebuild duration histogram
	replaceDuration prometheus.Histogram

	// Current number of registered components
	components prometheus.Gauge

	// Queries by kind (component, handler, by_capability, ...)
	queriesTotal *prometheus.CounterVec

	// Lookups that returned absent
	lookupMissesTotal *prometheus.CounterVec
}

// NewCatalogMetrics creates and registers catalog metrics with the provided
// registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		replacesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "replaces_total",
				Help:      "Total number of catalog replacements",
			},
			[]string{"status"},
		),

		replaceDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "replace_duration_seconds",
				Help:      "Duration of catalog index rebuilds in seconds",
				// Rebuilds are in-memory and should stay well under 16ms
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		components: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "components",
				Help:      "Number of components in the current catalog",
			},
		),

		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "queries_total",
				Help:      "Total number of catalog queries by kind",
			},
			[]string{"kind"},
		),

		lookupMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "catalog",
				Name:      "lookup_misses_total",
				Help:      "Total number of catalog lookups that found nothing",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		cm.replacesTotal,
		cm.replaceDuration,
		cm.components,
		cm.queriesTotal,
		cm.lookupMissesTotal,
	)

	return cm
}

// RecordReplace records a catalog replacement.
//
// Parameters:
//   - status: "ok" or "rejected"
//   - components: Component count of the new catalog (ignored when rejected)
//   - duration: Time spent rebuilding the indexes
func (cm *CatalogMetrics) RecordReplace(status string, components int, duration time.Duration) {
	cm.replacesTotal.WithLabelValues(status).Inc()
	cm.replaceDuration.Observe(duration.Seconds())
	if status == "ok" {
		cm.components.Set(float64(components))
	}
}

// RecordQuery records a catalog query.
//
// Parameters:
//   - kind: Query kind ("component", "handler", "by_capability",
//     "by_capabilities", "by_category", "query", "all", "all_policies",
//     "policies_by_category")
func (cm *CatalogMetrics) RecordQuery(kind string) {
	cm.queriesTotal.WithLabelValues(kind).Inc()
}

// RecordMiss records a lookup that found nothing.
//
// Parameters:
//   - kind: Lookup kind ("component", "handler", "set_state")
func (cm *CatalogMetrics) RecordMiss(kind string) {
	cm.lookupMissesTotal.WithLabelValues(kind).Inc()
}
