package prefs

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. It is the default backend and the
// test seam; values do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers *watchers
	closed   bool
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		watchers: newWatchers(),
	}
}

// Get returns the value stored under key, or def when unset.
func (s *MemoryStore) Get(ctx context.Context, key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return def, ErrStoreClosed
	}
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return def, nil
}

// Set stores value under key and notifies watchers.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.values[key] = value
	s.watchers.notify(key, value)
	return nil
}

// Watch emits the current value for key immediately, then every change.
func (s *MemoryStore) Watch(ctx context.Context, key, def string) (<-chan string, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrStoreClosed
	}

	current, ok := s.values[key]
	if !ok {
		current = def
	}
	ch, cancel := s.watchers.subscribe(key, current)

	stop := context.AfterFunc(ctx, cancel)
	detach := func() {
		stop()
		cancel()
	}
	return ch, detach, nil
}

// Close closes all watcher channels. Further operations fail with
// ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.watchers.closeAll()
	return nil
}
