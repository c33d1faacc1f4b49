package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
)

// UserStore implements store.UserDirectory against the users table.
// It is read-only: account management lives in the user service, this
// core only resolves identities.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a new PostgreSQL-backed user directory.
func NewUserStore(db store.DBTX) *UserStore {
	return &UserStore{db: db}
}

var _ store.UserDirectory = (*UserStore)(nil)

// GetByID implements store.UserDirectory.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, created_at
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, MapError(err))
	}

	return user, nil
}

// Exists implements store.UserDirectory.Exists.
func (s *UserStore) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user %d: %w", id, MapError(err))
	}

	return exists, nil
}
