package history

import (
	"context"
	"sync"
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"
)

// MemoryStore keeps records in a bounded in-memory ring, oldest first.
// When the ring is full the oldest record is dropped to make room.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []*Record
	capacity int
	closed   bool
}

// NewMemoryStore creates an in-memory history store holding at most
// capacity records. A capacity of 0 or less uses the default.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = config.DefaultHistoryMemoryCapacity
	}
	return &MemoryStore{
		records:  make([]*Record, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest one when the store is full.
func (s *MemoryStore) Append(ctx context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	cp := *r
	if len(s.records) == s.capacity {
		copy(s.records, s.records[1:])
		s.records[len(s.records)-1] = &cp
		return nil
	}
	s.records = append(s.records, &cp)
	return nil
}

// List returns matching records, newest first.
func (s *MemoryStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var results []*Record
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if !f.matches(r) {
			continue
		}
		cp := *r
		results = append(results, &cp)
		if f.Limit > 0 && len(results) == f.Limit {
			break
		}
	}
	return results, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}
	return int64(len(s.records)), nil
}

// DeleteBefore removes up to limit records older than cutoff, oldest first.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var deleted int64
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Timestamp.Before(cutoff) && (limit <= 0 || deleted < int64(limit)) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept
	return deleted, nil
}

// DeleteOldest removes the n oldest records.
func (s *MemoryStore) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	if n <= 0 {
		return 0, nil
	}
	if n > int64(len(s.records)) {
		n = int64(len(s.records))
	}
	remaining := copy(s.records, s.records[n:])
	for i := remaining; i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = s.records[:remaining]
	return n, nil
}

// Close releases the store. Further operations return ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}
