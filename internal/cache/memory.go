package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiry    time.Time
	insertIdx int64
}

// MemoryStore is an in-process Store bounded by entry count.
// Expired entries are removed lazily; at capacity the oldest insert is evicted.
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[string]entry
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore holding at most maxEntries items
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryStore{
		items:      make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a cached value if found and not expired
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if s.now().After(e.expiry) {
		s.mu.Lock()
		if e2, ok2 := s.items[key]; ok2 && s.now().After(e2.expiry) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value for ttl. Non-positive ttl is a no-op.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{
		value:     value,
		expiry:    s.now().Add(ttl),
		insertIdx: s.nextIdx,
	}
	s.nextIdx++

	if _, exists := s.items[key]; exists {
		s.items[key] = e
		return
	}

	if len(s.items) >= s.maxEntries {
		s.evictOldest()
	}

	s.items[key] = e
}

// Len returns the number of stored entries, including expired ones not yet removed
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range s.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(s.items, oldestKey)
	}
}
