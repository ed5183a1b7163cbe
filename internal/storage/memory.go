package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps blobs in a map. It backs tests and the "memory" config
// backend, where persistence across restarts is not wanted.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (json.RawMessage, Status) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, StatusAbsent
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, StatusOK
}

func (m *MemoryStore) Save(_ context.Context, key string, blob json.RawMessage) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.blobs[key] = stored
	return StatusOK
}

func (m *MemoryStore) Clear(_ context.Context, key string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return StatusOK
}
