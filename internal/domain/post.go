package domain

import (
	"errors"
	"time"
)

// Post validation errors.
var (
	ErrEmptyImagePath = errors.New("image path cannot be empty")
	ErrInvalidOwner   = errors.New("post owner ID must be positive")
)

// Post is a persisted image post. The ID is assigned by storage on
// commit; a Post row only ever exists for an image that was
// successfully transformed and saved.
type Post struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ImagePath   string    `json:"image_path"`
	Description string    `json:"description"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPost assembles an unpersisted Post for the given owner and stored
// image path. The creation timestamp is set to now (UTC); the ID stays
// zero until the storage layer assigns one.
func NewPost(userID int64, imagePath, description string, location *string) (*Post, error) {
	post := &Post{
		UserID:      userID,
		ImagePath:   imagePath,
		Description: description,
		Location:    location,
		CreatedAt:   time.Now().UTC(),
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks if the Post has valid data.
func (p *Post) Validate() error {
	if p.UserID <= 0 {
		return ErrInvalidOwner
	}
	if p.ImagePath == "" {
		return ErrEmptyImagePath
	}
	return nil
}

// TagRow links a tagged user to a post. Rows are created in bulk in
// the same transaction as their Post and never independently of it.
type TagRow struct {
	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`
}
