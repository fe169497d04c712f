package source

import (
	"context"
	"sync"

	"github.com/jpicklyk/knox-core/pkg/policy/grouping"
)

// MemorySource is a fixed in-memory grouping source for testing and for
// programs that assemble their configuration in code.
type MemorySource struct {
	mu  sync.RWMutex
	cfg *grouping.Config
}

// NewMemorySource creates a source serving cfg. A nil cfg serves an empty
// configuration.
func NewMemorySource(cfg *grouping.Config) *MemorySource {
	if cfg == nil {
		cfg = &grouping.Config{}
	}
	return &MemorySource{cfg: cfg.Clone()}
}

// Load returns a copy of the stored configuration.
func (s *MemorySource) Load(ctx context.Context) (*grouping.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone(), nil
}

// Watch returns a channel that emits nothing and closes when ctx ends.
func (s *MemorySource) Watch(ctx context.Context) (<-chan Event, error) {
	events := make(chan Event)
	go func() {
		<-ctx.Done()
		close(events)
	}()
	return events, nil
}

// SetConfig replaces the stored configuration.
func (s *MemorySource) SetConfig(cfg *grouping.Config) {
	if cfg == nil {
		cfg = &grouping.Config{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clone()
}
