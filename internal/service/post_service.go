package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
	"github.com/mtereshin/picpost-api/internal/task"
)

// AcceptedStatus is the human-readable acceptance message returned to
// the submitter alongside the task ID.
const AcceptedStatus = "post accepted for processing"

// SubmitReceipt is the dispatcher's response to an accepted
// submission. The task ID is the handle for polling the outcome.
type SubmitReceipt struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
}

// PostService validates submissions and dispatches them into the
// asynchronous pipeline. Everything it rejects is rejected before any
// ledger or queue mutation; everything it accepts is guaranteed to be
// registered in-flight and queued by the time SubmitPost returns.
type PostService struct {
	users  store.UserDirectory
	tags   *TagValidator
	posts  store.PostStore
	ledger task.Ledger
	queue  task.QueueWriter
	logger *slog.Logger
}

// NewPostService creates a PostService with its collaborators.
func NewPostService(
	users store.UserDirectory,
	tags *TagValidator,
	posts store.PostStore,
	ledger task.Ledger,
	queue task.QueueWriter,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		users:  users,
		tags:   tags,
		posts:  posts,
		ledger: ledger,
		queue:  queue,
		logger: logger,
	}
}

// SubmitPost validates the submission and hands it to the pipeline.
//
// The ordering here is deliberate: the task is registered in-flight
// before the job is enqueued, so no worker can observe a consumable
// job whose task the ledger does not yet know. A worker can therefore
// never finalize a task ahead of its registration.
func (s *PostService) SubmitPost(ctx context.Context, ownerID int64, sub *domain.Submission) (*SubmitReceipt, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner %d: %w", ownerID, err)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	if err := s.tags.Validate(ctx, ownerID, sub.TaggedUserIDs); err != nil {
		return nil, err
	}

	taskID := uuid.NewString()
	logger := s.logger.With("task_id", taskID, "owner_id", ownerID)

	if err := s.ledger.MarkInFlight(ctx, taskID); err != nil {
		logger.Error("failed to register task in-flight", "error", err)
		return nil, fmt.Errorf("failed to register task: %w", err)
	}

	job := task.Job{
		TaskID:        taskID,
		OwnerID:       ownerID,
		Image:         sub.Image,
		Description:   sub.Description,
		Location:      sub.Location,
		TaggedUserIDs: sub.TaggedUserIDs,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		// The task is registered but no worker will ever see the job;
		// fail it right away so it cannot sit in-flight forever.
		logger.Error("failed to enqueue job", "error", err)
		if finErr := s.ledger.FinalizeFailed(ctx, taskID, "submission could not be queued"); finErr != nil {
			logger.Error("failed to finalize unqueued task", "error", finErr)
		}
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	logger.Info("submission dispatched")
	return &SubmitReceipt{Status: AcceptedStatus, TaskID: taskID}, nil
}

// GetPost retrieves a committed post and the users tagged in it.
func (s *PostService) GetPost(ctx context.Context, postID int64) (*domain.Post, []int64, error) {
	return s.posts.GetByID(ctx, postID)
}

// TaskStatus describes the current ledger state of one task.
type TaskStatus struct {
	TaskID string     `json:"task_id"`
	State  task.State `json:"state"`
	PostID int64      `json:"post_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// TaskOutcome reports where a task currently is: in-flight, solved
// (with its post ID) or failed (with its error text). Returns
// task.ErrTaskNotFound for identifiers the ledger has never seen.
func (s *PostService) TaskOutcome(ctx context.Context, taskID string) (*TaskStatus, error) {
	if postID, ok, err := s.ledger.LookupSolved(ctx, taskID); err != nil {
		return nil, err
	} else if ok {
		return &TaskStatus{TaskID: taskID, State: task.StateSolved, PostID: postID}, nil
	}

	if errText, ok, err := s.ledger.LookupFailed(ctx, taskID); err != nil {
		return nil, err
	} else if ok {
		return &TaskStatus{TaskID: taskID, State: task.StateFailed, Error: errText}, nil
	}

	inFlight, err := s.ledger.IsInFlight(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if inFlight {
		return &TaskStatus{TaskID: taskID, State: task.StateInFlight}, nil
	}

	return nil, task.ErrTaskNotFound
}

// IsRejection reports whether err is a synchronous submission
// rejection (unknown owner or invalid tags) as opposed to an
// infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrInvalidTags) ||
		errors.Is(err, domain.ErrEmptyImage)
}
