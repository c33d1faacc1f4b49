package mocks

import (
	"context"
	"sync"

	"github.com/mtereshin/picpost-api/internal/store"
)

// MockBlobStore implements store.BlobStore in memory.
type MockBlobStore struct {
	// SaveFn, when non-nil, replaces the default behavior.
	SaveFn func(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)

	mu      sync.Mutex
	objects map[string][]byte
}

// NewMockBlobStore creates an empty blob store.
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{objects: make(map[string][]byte)}
}

var _ store.BlobStore = (*MockBlobStore)(nil)

func (m *MockBlobStore) Save(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, objectPath, data, contentType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectPath] = append([]byte(nil), data...)
	return objectPath, nil
}

// Object returns the stored bytes for a path, if present.
func (m *MockBlobStore) Object(objectPath string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectPath]
	return data, ok
}
