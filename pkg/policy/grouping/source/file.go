package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jpicklyk/knox-core/pkg/config"
	"github.com/jpicklyk/knox-core/pkg/policy/grouping"
)

// FileSource loads grouping configuration from a YAML file on disk and
// watches it for changes.
type FileSource struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewFileSource creates a file-based grouping source. A non-positive
// debounce falls back to the default debounce interval, and a nil logger
// falls back to slog.Default.
func NewFileSource(path string, debounce time.Duration, logger *slog.Logger) *FileSource {
	if debounce <= 0 {
		debounce = config.DefaultGroupingDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:     path,
		debounce: debounce,
		logger:   logger,
	}
}

// Load reads and parses the grouping file.
func (s *FileSource) Load(ctx context.Context) (*grouping.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grouping file %q: %w", s.path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load grouping file %q: %w", s.path, err)
	}
	return cfg, nil
}

// Watch watches the grouping file and emits an Event per debounced change:
// the reloaded configuration on success, the load error on failure. The
// channel closes when ctx ends.
//
// The watch is registered on the parent directory rather than the file
// itself; editors and atomic writers replace the file, which would silently
// drop a watch on the old inode.
func (s *FileSource) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	s.logger.Info("grouping file watcher started",
		slog.String("path", s.path),
		slog.Duration("debounce", s.debounce),
	)

	events := make(chan Event, 1)
	go s.watchLoop(ctx, watcher, events)
	return events, nil
}

func (s *FileSource) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- Event) {
	defer close(events)
	defer watcher.Close()

	debounce := newDebouncer(s.debounce)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("grouping file watcher stopped")
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(ev) {
				continue
			}
			s.logger.Debug("grouping file event",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)
			debounce.Trigger(func() {
				s.reload(ctx, events)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("grouping file watcher error", slog.String("error", err.Error()))
		}
	}
}

func (s *FileSource) reload(ctx context.Context, events chan<- Event) {
	cfg, err := s.Load(ctx)
	if err != nil {
		s.logger.Warn("grouping reload failed, keeping last good configuration",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		sendEvent(ctx, events, Event{Err: err})
		return
	}

	s.logger.Info("grouping configuration reloaded",
		slog.String("path", s.path),
		slog.Int("groups", len(cfg.Groups)),
		slog.Int("assignments", len(cfg.Assignments)),
	)
	sendEvent(ctx, events, Event{Config: cfg})
}

// relevant filters directory events down to content changes of the watched
// file. Chmod-only events never qualify.
func (s *FileSource) relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != filepath.Base(s.path) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
