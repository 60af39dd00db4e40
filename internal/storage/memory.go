package storage

import (
	"context"
	"sync"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
)

// Memory is an in-process Store. Reads complete before Value returns.
type Memory struct {
	mux     sync.RWMutex
	entries map[string][]byte
}

// NewMemory returns a Memory store holding a copy of entries
func NewMemory(entries map[string][]byte) *Memory {
	m := &Memory{entries: make(map[string][]byte, len(entries))}
	for key, value := range entries {
		m.entries[key] = append([]byte(nil), value...)
	}

	return m
}

// Put stores value under key
func (m *Memory) Put(key string, value []byte) {
	m.mux.Lock()
	defer m.mux.Unlock()

	m.entries[key] = append([]byte(nil), value...)
}

// Delete removes key
func (m *Memory) Delete(key string) {
	m.mux.Lock()
	defer m.mux.Unlock()

	delete(m.entries, key)
}

// Value returns the entry stored under key
func (m *Memory) Value(ctx context.Context, key string) *future.Future[Lookup] {
	if err := ctx.Err(); err != nil {
		return future.Completed(Lookup{Key: key, Error: err})
	}

	m.mux.RLock()
	value, exists := m.entries[key]
	m.mux.RUnlock()

	return future.Completed(Lookup{Key: key, Value: append([]byte(nil), value...), Exists: exists})
}
