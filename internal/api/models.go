package api

import (
	"time"

	"github.com/mtereshin/picpost-api/internal/domain"
)

// SubmitPostResponse acknowledges an accepted submission.
type SubmitPostResponse struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
}

// TaskStatusResponse reports the current state of a submission task.
type TaskStatusResponse struct {
	TaskID string `json:"task_id"`
	State  string `json:"state"`
	PostID int64  `json:"post_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PostResponse is the wire form of a committed post.
type PostResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ImagePath     string    `json:"image_path"`
	Description   string    `json:"description"`
	Location      *string   `json:"location,omitempty"`
	TaggedUserIDs []int64   `json:"tagged_user_ids"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPostResponse(post *domain.Post, taggedUserIDs []int64) PostResponse {
	if taggedUserIDs == nil {
		taggedUserIDs = []int64{}
	}
	return PostResponse{
		ID:            post.ID,
		UserID:        post.UserID,
		ImagePath:     post.ImagePath,
		Description:   post.Description,
		Location:      post.Location,
		TaggedUserIDs: taggedUserIDs,
		CreatedAt:     post.CreatedAt,
	}
}
