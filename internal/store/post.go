package store

import (
	"context"
	"database/sql"

	"github.com/mtereshin/picpost-api/internal/domain"
)

// PostStore defines the interface for post persistence.
type PostStore interface {
	// Create durably commits one post row plus one tag row per tagged
	// user as a single transaction, and returns the assigned post ID.
	// A post and its tag rows exist together or not at all. Failures
	// are surfaced to the caller unretried.
	Create(ctx context.Context, post *domain.Post, taggedUserIDs []int64) (int64, error)

	// GetByID retrieves a post by its ID together with the IDs of the
	// users tagged in it. Returns ErrPostNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Post, []int64, error)

	// WithTx returns a PostStore bound to the provided transaction so
	// callers can compose multiple operations atomically.
	WithTx(tx *sql.Tx) PostStore
}
