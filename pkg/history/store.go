package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"
)

// ErrStoreClosed is returned by store operations after Close.
var ErrStoreClosed = errors.New("history store is closed")

// Store persists policy-change records.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Append adds a record to the store.
	Append(ctx context.Context, r *Record) error

	// List returns records matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes up to limit records with a timestamp before
	// cutoff, oldest first, and returns how many were removed. A limit
	// of 0 or less removes all matching records.
	DeleteBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)

	// DeleteOldest removes the n oldest records and returns how many
	// were removed.
	DeleteOldest(ctx context.Context, n int64) (int64, error)

	// Close releases store resources.
	Close() error
}

// FromConfig builds the history store selected by cfg.Backend ("memory" or
// "sqlite"; empty means memory). A nil config yields an in-memory store
// with the default capacity.
func FromConfig(cfg *config.HistoryConfig) (Store, error) {
	if cfg == nil {
		return NewMemoryStore(0), nil
	}
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryStore(cfg.MemoryCapacity), nil
	case "sqlite":
		return NewSQLiteStore(&cfg.SQLite)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
