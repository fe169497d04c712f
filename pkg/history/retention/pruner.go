package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"
	"github.com/jpicklyk/knox-core/pkg/history"
	"github.com/jpicklyk/knox-core/pkg/telemetry/metrics"
)

// Option configures a Pruner.
type Option func(*Pruner)

// WithLogger sets the logger used by the pruner and its scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pruner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the collector recording prune totals.
func WithMetrics(collector *metrics.Collector) Option {
	return func(p *Pruner) {
		p.metrics = collector
	}
}

// Pruner enforces the retention policy on history records.
type Pruner struct {
	store     history.Store
	cfg       *config.RetentionConfig
	logger    *slog.Logger
	metrics   *metrics.Collector
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner. A nil config uses the
// default retention settings.
func NewPruner(store history.Store, cfg *config.RetentionConfig, opts ...Option) *Pruner {
	if cfg == nil {
		cfg = &config.RetentionConfig{
			Days:      config.DefaultHistoryRetentionDays,
			Schedule:  config.DefaultHistoryRetentionSchedule,
			BatchSize: config.DefaultHistoryRetentionBatch,
		}
	}

	p := &Pruner{
		store:  store,
		cfg:    cfg,
		logger: slog.Default().With("component", "history.retention"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.scheduler = NewScheduler(p)

	return p
}

// Prune deletes history records older than the retention period or
// exceeding the max record count.
//
// Pruning happens in two phases:
// 1. Age-based: delete records older than the configured days
// 2. Count-based: if total records > max records, delete oldest
//
// Deletes run in batches so a large backlog never holds one long
// transaction. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	// Phase 1: prune by retention period
	if p.cfg.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		totalDeleted += deleted
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		p.logger.Info("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.cfg.Days,
		)
	}

	// Phase 2: prune by max record count
	if p.cfg.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		totalDeleted += deleted
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		p.logger.Info("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.cfg.MaxRecords,
		)
	}

	p.metrics.RecordHistoryPrune(totalDeleted)

	if totalDeleted == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.cfg.Days,
			"max_records", p.cfg.MaxRecords,
		)
	} else {
		p.logger.Info("history pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.cfg.Days,
			"max_records", p.cfg.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period in batches.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.cfg.Days)
	batch := p.batchSize()

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.cfg.Days,
	)

	var deleted int64
	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		n, err := p.store.DeleteBefore(ctx, cutoff, batch)
		if err != nil {
			return deleted, err
		}
		deleted += n

		if n < int64(batch) {
			return deleted, nil
		}
	}
}

// pruneByCount deletes the oldest records in batches until the total count
// is back under the configured cap.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if count <= p.cfg.MaxRecords {
		p.logger.Debug("record count within limit",
			"current", count,
			"max", p.cfg.MaxRecords,
		)
		return 0, nil
	}

	toDelete := count - p.cfg.MaxRecords

	p.logger.Info("record count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.cfg.MaxRecords,
		"to_delete", toDelete,
	)

	batch := int64(p.batchSize())
	var deleted int64
	for deleted < toDelete {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		n := batch
		if remaining := toDelete - deleted; remaining < n {
			n = remaining
		}

		removed, err := p.store.DeleteOldest(ctx, n)
		if err != nil {
			return deleted, err
		}
		deleted += removed

		if removed < n {
			// The store shrank underneath us, nothing left to trim.
			return deleted, nil
		}
	}
	return deleted, nil
}

// batchSize returns the configured delete batch size.
func (p *Pruner) batchSize() int {
	if p.cfg.BatchSize > 0 {
		return p.cfg.BatchSize
	}
	return config.DefaultHistoryRetentionBatch
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
