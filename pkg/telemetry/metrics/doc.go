// Package metrics provides Prometheus metrics collection for knox-core.
//
// The package is organized around a central Collector that owns a
// prometheus.Registry and three metric groups:
//
//   - CatalogMetrics: catalog replacements, index rebuild duration, query
//     and miss counters
//   - ExecutorMetrics: execution counts by policy and outcome, durations,
//     in-flight gauge
//   - HistoryMetrics: appended records, append failures, retention pruning
//
// # Basic Usage
//
//	cfg := &config.MetricsConfig{
//	    Enabled:   true,
//	    Namespace: "knox",
//	}
//	collector := metrics.NewCollector(cfg, nil)
//
//	reg := registry.New(registry.WithMetrics(collector))
//
//	http.Handle(cfg.Path, collector.Handler())
//
// All Record methods are nil-receiver safe and honor the Enabled flag, so
// components take a *Collector and call it unconditionally; a component wired
// without metrics simply records nothing.
//
// # Metric Naming
//
// Metrics follow the pattern {namespace}_{subsystem}_{name}, for example:
//
//	knox_catalog_replaces_total{status="ok"}
//	knox_executor_executions_total{policy="wifi-restriction",operation="set_state",outcome="ok"}
//	knox_history_prune_deleted_total
package metrics
