// Package telemetry provides observability for the policy catalog.
//
// # Overview
//
// The telemetry package implements structured logging and Prometheus
// metrics for catalog operations. Both are optional: every component
// that accepts a logger or a metrics collector also works without one.
//
// # Components
//
//   - logging: slog-based structured logging with operation context
//   - metrics: Prometheus metrics for catalog, executor and history
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	reg := registry.New(
//		registry.WithLogger(logger),
//		registry.WithMetrics(collector),
//	)
//
// The collector exposes its registry through metrics.Handler for serving
// a /metrics endpoint when the embedding application wants one.
package telemetry
