package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/platform/logger"
	"github.com/mtereshin/picpost-api/internal/store"
)

// PostStore implements store.PostStore using PostgreSQL.
type PostStore struct {
	db *sql.DB
	// tx is set when the store is bound to a transaction via WithTx.
	tx *sql.Tx
}

// NewPostStore creates a new PostgreSQL implementation of the
// PostStore interface. The database connection is initialized and
// managed by the caller.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

var _ store.PostStore = (*PostStore)(nil)

// WithTx implements store.PostStore.WithTx.
func (s *PostStore) WithTx(tx *sql.Tx) store.PostStore {
	return &PostStore{db: s.db, tx: tx}
}

// conn returns the bound transaction when present, the pool otherwise.
func (s *PostStore) conn() store.DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Create implements store.PostStore.Create. The post row and its tag
// rows are committed as one unit: when called outside a transaction
// it opens one, so a tag insert failure rolls the post back too.
func (s *PostStore) Create(ctx context.Context, post *domain.Post, taggedUserIDs []int64) (int64, error) {
	if err := post.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if s.tx != nil {
		return s.createInTx(ctx, s.tx, post, taggedUserIDs)
	}

	var postID int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		id, err := s.createInTx(ctx, tx, post, taggedUserIDs)
		if err != nil {
			return err
		}
		postID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return postID, nil
}

// createInTx inserts the post and its tag rows on the given transaction.
func (s *PostStore) createInTx(ctx context.Context, tx *sql.Tx, post *domain.Post, taggedUserIDs []int64) (int64, error) {
	log := logger.FromContext(ctx)

	insertPost := `
		INSERT INTO posts (user_id, image_path, description, location, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var postID int64
	err := tx.QueryRowContext(ctx, insertPost,
		post.UserID,
		post.ImagePath,
		post.Description,
		post.Location,
		post.CreatedAt,
	).Scan(&postID)
	if err != nil {
		log.Error("failed to insert post",
			"user_id", post.UserID,
			"error", err)
		return 0, fmt.Errorf("failed to insert post: %w", MapError(err))
	}

	insertTag := `INSERT INTO marked_users (user_id, post_id) VALUES ($1, $2)`
	for _, userID := range taggedUserIDs {
		if _, err := tx.ExecContext(ctx, insertTag, userID, postID); err != nil {
			log.Error("failed to insert tag row",
				"post_id", postID,
				"tagged_user_id", userID,
				"error", err)
			return 0, fmt.Errorf("failed to insert tag row for user %d: %w", userID, MapError(err))
		}
	}

	return postID, nil
}

// GetByID implements store.PostStore.GetByID.
func (s *PostStore) GetByID(ctx context.Context, id int64) (*domain.Post, []int64, error) {
	query := `
		SELECT id, user_id, image_path, description, location, created_at
		FROM posts
		WHERE id = $1
	`

	post := &domain.Post{}
	err := s.conn().QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.ImagePath,
		&post.Description,
		&post.Location,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, store.ErrPostNotFound
		}
		return nil, nil, fmt.Errorf("failed to get post %d: %w", id, MapError(err))
	}

	tagQuery := `
		SELECT user_id
		FROM marked_users
		WHERE post_id = $1
		ORDER BY user_id
	`

	rows, err := s.conn().QueryContext(ctx, tagQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query tags for post %d: %w", id, MapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var tagged []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, nil, fmt.Errorf("failed to scan tag row: %w", MapError(err))
		}
		tagged = append(tagged, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating tag rows: %w", MapError(err))
	}

	return post, tagged, nil
}
