package cache

import (
	"context"
	"sync"
)

// Memory is an in-process Store guarded by a mutex. With a capacity set, the
// oldest entries are evicted first. Data is copied on the way in and out so
// callers can hold onto returned slices.
type Memory struct {
	mu       sync.RWMutex
	data     map[string][]byte
	order    []string
	capacity int
}

// NewMemory returns an empty in-memory store. A capacity of zero or less
// means unbounded.
func NewMemory(capacity int) *Memory {
	return &Memory{
		data:     make(map[string][]byte),
		capacity: capacity,
	}
}

// Read implements Store.
func (m *Memory) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write implements Store.
func (m *Memory) Write(ctx context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		if m.capacity > 0 && len(m.order) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.data, oldest)
		}
		m.order = append(m.order, key)
	}
	m.data[key] = stored
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
