package store

import (
	"context"

	"github.com/mtereshin/picpost-api/internal/domain"
)

// UserDirectory is the read-only view of the user service this core
// depends on. The post pipeline only ever asks "who is this user" and
// "does this user exist"; account management belongs to the user
// service itself.
type UserDirectory interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Exists reports whether a user with the given ID exists.
	// A lookup failure is returned as an error, not as "false".
	Exists(ctx context.Context, id int64) (bool, error)
}
