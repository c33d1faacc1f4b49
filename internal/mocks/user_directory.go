package mocks

import (
	"context"
	"time"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
)

// MockUserDirectory implements store.UserDirectory over a fixed set
// of users.
type MockUserDirectory struct {
	// Custom behavior functions, used when non-nil.
	GetByIDFn func(ctx context.Context, id int64) (*domain.User, error)
	ExistsFn  func(ctx context.Context, id int64) (bool, error)

	// Users holds the IDs the default implementation knows about.
	Users map[int64]*domain.User

	// Err, when set, is returned by every default lookup.
	Err error
}

// NewMockUserDirectory creates a directory containing the given IDs
// with generated usernames.
func NewMockUserDirectory(ids ...int64) *MockUserDirectory {
	users := make(map[int64]*domain.User, len(ids))
	for _, id := range ids {
		users[id] = &domain.User{
			ID:        id,
			Username:  "user",
			CreatedAt: time.Now().UTC(),
		}
	}
	return &MockUserDirectory{Users: users}
}

var _ store.UserDirectory = (*MockUserDirectory)(nil)

func (m *MockUserDirectory) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserDirectory) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Users[id]
	return ok, nil
}
