package objectstore

import (
	"context"
	"os"
	"path"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates a new in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

// Put stores an object under bucket/key.
func (m *MemoryStore) Put(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	m.objects[path.Join(bucket, key)] = copied
}

// Download writes the object at bucket/key to the local file path.
func (m *MemoryStore) Download(_ context.Context, bucket, key, filePath string) error {
	m.mu.RLock()
	data, ok := m.objects[path.Join(bucket, key)]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}

	return os.WriteFile(filePath, data, 0o644)
}
