package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpicklyk/knox-core/pkg/config"
	"github.com/jpicklyk/knox-core/pkg/policy/grouping"
)

// ErrSourceDisabled is returned by FromConfig when the configuration
// selects no grouping source.
var ErrSourceDisabled = errors.New("grouping source is disabled")

// Event is one reload notification from a watching source. Exactly one of
// Config and Err is set: a successful reload carries the new validated
// configuration, a failed one carries the reason. On Err the consumer keeps
// whatever configuration it last applied.
type Event struct {
	// Config is the newly loaded grouping configuration.
	Config *grouping.Config

	// Err is the load or validation failure.
	Err error
}

// Source loads grouping configuration and watches it for changes.
type Source interface {
	// Load reads and validates the current grouping configuration.
	Load(ctx context.Context) (*grouping.Config, error)

	// Watch emits an Event per detected configuration change until ctx is
	// cancelled. The returned channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan Event, error)
}

// FromConfig builds the source selected by cfg. Returns ErrSourceDisabled
// when cfg selects no source ("none"); callers then typically fall back to
// the capability strategy.
func FromConfig(cfg *config.GroupingConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Source {
	case "none", "":
		return nil, ErrSourceDisabled
	case "file":
		return NewFileSource(cfg.FilePath, cfg.DebounceInterval, logger), nil
	case "git":
		return NewGitSource(&cfg.Git, logger)
	default:
		return nil, fmt.Errorf("unknown grouping source %q", cfg.Source)
	}
}

// sendEvent delivers ev unless the watch context ends first.
func sendEvent(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
