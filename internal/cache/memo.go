package cache

import (
	"context"
	"sync"
)

type memoKey struct{}

// Memo is a bounded key/value memo scoped to one request.
// Once full, further Puts are dropped.
type Memo struct {
	mu         sync.Mutex
	items      map[string]any
	maxEntries int
}

// NewMemo creates a Memo holding at most maxEntries values
func NewMemo(maxEntries int) *Memo {
	return &Memo{
		items:      make(map[string]any),
		maxEntries: maxEntries,
	}
}

// Get returns the memoized value for key
func (m *Memo) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// Put memoizes value under key
func (m *Memo) Put(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[key]; !exists && len(m.items) >= m.maxEntries {
		return
	}
	m.items[key] = value
}

// Len returns the number of memoized values
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// WithMemo attaches m to ctx
func WithMemo(ctx context.Context, m *Memo) context.Context {
	return context.WithValue(ctx, memoKey{}, m)
}

// MemoFrom returns the Memo attached to ctx, or nil
func MemoFrom(ctx context.Context) *Memo {
	m, _ := ctx.Value(memoKey{}).(*Memo)
	return m
}
