package metrics

import (
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics in knox-core.
// It manages metric registration and provides a unified interface for
// recording metrics across the catalog, executor, and history components.
//
// All Record methods check the Enabled flag and are safe to call on a nil
// Collector, so components can be wired with or without metrics.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Catalog metrics
	catalogMetrics *CatalogMetrics

	// Executor metrics
	executorMetrics *ExecutorMetrics

	// History metrics
	historyMetrics *HistoryMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//	    Enabled:   true,
//	    Namespace: "knox",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "knox"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.catalogMetrics = NewCatalogMetrics(cfg, registry)
	c.executorMetrics = NewExecutorMetrics(cfg, registry)
	c.historyMetrics = NewHistoryMetrics(cfg, registry)

	return c
}

// RecordCatalogReplace records a catalog replacement.
//
// Parameters:
//   - status: "ok" or "rejected"
//   - components: Component count of the new catalog
//   - duration: Time spent rebuilding the indexes
func (c *Collector) RecordCatalogReplace(status string, components int, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.catalogMetrics.RecordReplace(status, components, duration)
}

// RecordCatalogQuery records a catalog query.
//
// Parameters:
//   - kind: Query kind ("component", "handler", "by_capability",
//     "by_capabilities", "by_category", "query", "all", "all_policies",
//     "policies_by_category")
func (c *Collector) RecordCatalogQuery(kind string) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.catalogMetrics.RecordQuery(kind)
}

// RecordCatalogMiss records a catalog lookup that found nothing.
//
// Parameters:
//   - kind: Lookup kind ("component", "handler", "set_state")
func (c *Collector) RecordCatalogMiss(kind string) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.catalogMetrics.RecordMiss(kind)
}

// RecordExecution records a completed policy execution.
//
// Parameters:
//   - policyName: Policy the execution operated on
//   - operation: Operation kind ("get_state", "set_state", or a custom name)
//   - outcome: "ok", "not_supported", "failed", "cancelled"
//   - duration: Wall-clock execution time
func (c *Collector) RecordExecution(policyName, operation, outcome string, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.executorMetrics.RecordExecution(policyName, operation, outcome, duration)
}

// ExecutionStarted records the start of a policy execution.
func (c *Collector) ExecutionStarted() {
	if c == nil || !c.config.Enabled {
		return
	}

	c.executorMetrics.ExecutionStarted()
}

// ExecutionFinished records the end of a policy execution.
func (c *Collector) ExecutionFinished() {
	if c == nil || !c.config.Enabled {
		return
	}

	c.executorMetrics.ExecutionFinished()
}

// RecordHistoryAppend records an appended history record.
//
// Parameters:
//   - outcome: Record outcome ("ok", "not_supported", "failed", "cancelled")
func (c *Collector) RecordHistoryAppend(outcome string) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordAppend(outcome)
}

// RecordHistoryAppendFailure records a history record dropped because the
// store failed.
func (c *Collector) RecordHistoryAppendFailure() {
	if c == nil || !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordAppendFailure()
}

// RecordHistoryPrune records a completed retention prune pass.
//
// Parameters:
//   - deleted: Number of records the pass removed
func (c *Collector) RecordHistoryPrune(deleted int64) {
	if c == nil || !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordPrune(deleted)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
