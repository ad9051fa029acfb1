package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a process-local map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	gets int
	sets int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++

	v, ok := m.values[key]
	if !ok {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}
	CacheHits.WithLabelValues("memory").Inc()
	return append([]byte(nil), v...), nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++

	m.values[key] = append([]byte(nil), value...)
	CacheSize.WithLabelValues("memory").Set(float64(len(value)))
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Writes returns how many times Set was called (for testing).
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// Reads returns how many times Get was called (for testing).
func (m *MemoryStore) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}
