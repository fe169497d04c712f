package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jpicklyk/knox-core/pkg/config"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("preference store is closed")

// Store is the durable key-value surface policy handlers use as backing
// storage. Values are strings; typed accessors (GetBool, SetBool) wrap the
// string forms.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or def when the key is
	// unset.
	Get(ctx context.Context, key, def string) (string, error)

	// Set stores value under key and notifies watchers of the key.
	Set(ctx context.Context, key, value string) error

	// Watch returns a channel that carries the key's current value
	// immediately, then every subsequent change. A slow consumer only
	// delays itself: intermediate values may be dropped, the latest value
	// is always delivered. The returned cancel function detaches the
	// watcher and closes the channel; cancelling ctx does the same.
	Watch(ctx context.Context, key, def string) (<-chan string, func(), error)

	// Close releases store resources and closes all watcher channels.
	Close() error
}

// GetBool reads a boolean preference. An unparsable stored value yields
// def together with an error describing the bad value.
func GetBool(ctx context.Context, s Store, key string, def bool) (bool, error) {
	raw, err := s.Get(ctx, key, strconv.FormatBool(def))
	if err != nil {
		return def, err
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("preference %q is not a boolean: %w", key, err)
	}
	return value, nil
}

// SetBool stores a boolean preference.
func SetBool(ctx context.Context, s Store, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

// FromConfig builds the store selected by cfg.Backend ("memory" or
// "sqlite"; empty means memory).
func FromConfig(cfg *config.PrefsConfig) (Store, error) {
	if cfg == nil {
		return NewMemoryStore(), nil
	}
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(&cfg.SQLite)
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", cfg.Backend)
	}
}
