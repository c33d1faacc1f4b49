package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
)

// MockPostStore implements store.PostStore with an in-memory map and
// sequential IDs.
type MockPostStore struct {
	// Custom behavior functions, used when non-nil.
	CreateFn  func(ctx context.Context, post *domain.Post, taggedUserIDs []int64) (int64, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Post, []int64, error)

	mu     sync.Mutex
	nextID int64
	posts  map[int64]*domain.Post
	tags   map[int64][]int64
}

// NewMockPostStore creates an empty post store.
func NewMockPostStore() *MockPostStore {
	return &MockPostStore{
		nextID: 1,
		posts:  make(map[int64]*domain.Post),
		tags:   make(map[int64][]int64),
	}
}

var _ store.PostStore = (*MockPostStore)(nil)

func (m *MockPostStore) Create(ctx context.Context, post *domain.Post, taggedUserIDs []int64) (int64, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, post, taggedUserIDs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	stored := *post
	stored.ID = id
	m.posts[id] = &stored
	m.tags[id] = append([]int64(nil), taggedUserIDs...)
	return id, nil
}

func (m *MockPostStore) GetByID(ctx context.Context, id int64) (*domain.Post, []int64, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, nil, store.ErrPostNotFound
	}
	return post, m.tags[id], nil
}

func (m *MockPostStore) WithTx(tx *sql.Tx) store.PostStore { return m }

// Seed inserts a post directly, bypassing any CreateFn override, and
// returns its assigned ID.
func (m *MockPostStore) Seed(post *domain.Post, taggedUserIDs []int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	stored := *post
	stored.ID = id
	m.posts[id] = &stored
	m.tags[id] = append([]int64(nil), taggedUserIDs...)
	return id
}

// Count reports how many posts have been committed.
func (m *MockPostStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}
