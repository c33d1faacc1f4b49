package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/imaging"
	"github.com/mtereshin/picpost-api/internal/store"
	"github.com/mtereshin/picpost-api/internal/task"
)

// storedContentType is the content type every transformed image is
// stored under; the transformer always re-encodes to JPEG.
const storedContentType = "image/jpeg"

// ImageProcessor is the worker-side half of the pipeline. For each
// job it crops the image, saves it to blob storage, commits the post
// row plus tag rows, and finalizes the task: solved on success,
// failed on the first error. Every job finalizes its task exactly
// once; errors never travel back to the submitter.
type ImageProcessor struct {
	transformer *imaging.Transformer
	blobs       store.BlobStore
	posts       store.PostStore
	ledger      task.Ledger
	logger      *slog.Logger
}

// NewImageProcessor creates an ImageProcessor with its collaborators.
func NewImageProcessor(
	transformer *imaging.Transformer,
	blobs store.BlobStore,
	posts store.PostStore,
	ledger task.Ledger,
	logger *slog.Logger,
) *ImageProcessor {
	return &ImageProcessor{
		transformer: transformer,
		blobs:       blobs,
		posts:       posts,
		ledger:      ledger,
		logger:      logger,
	}
}

var _ task.Processor = (*ImageProcessor)(nil)

// Process implements task.Processor. Steps run strictly in order; a
// later step never starts before the previous one completed, so a
// post row can only ever reference an image that was stored, and a
// solved task can only ever reference a committed post.
func (p *ImageProcessor) Process(ctx context.Context, job task.Job) error {
	logger := p.logger.With("task_id", job.TaskID, "owner_id", job.OwnerID)

	if err := job.Validate(); err != nil {
		return p.fail(ctx, logger, job.TaskID, fmt.Errorf("malformed job: %w", err))
	}

	transformed, err := p.transformer.SquareCrop(job.Image)
	if err != nil {
		return p.fail(ctx, logger, job.TaskID, err)
	}

	objectPath := fmt.Sprintf("%d/%s.jpg", job.OwnerID, uuid.NewString())
	storedPath, err := p.blobs.Save(ctx, objectPath, transformed, storedContentType)
	if err != nil {
		return p.fail(ctx, logger, job.TaskID, fmt.Errorf("failed to save image: %w", err))
	}

	post, err := domain.NewPost(job.OwnerID, storedPath, job.Description, job.Location)
	if err != nil {
		return p.fail(ctx, logger, job.TaskID, err)
	}

	postID, err := p.posts.Create(ctx, post, job.TaggedUserIDs)
	if err != nil {
		return p.fail(ctx, logger, job.TaskID, fmt.Errorf("failed to commit post: %w", err))
	}

	if err := p.ledger.FinalizeSolved(ctx, job.TaskID, postID); err != nil {
		// The post exists but the ledger would not accept the result;
		// most likely the stale sweep failed the task first.
		logger.Error("failed to finalize solved task",
			"post_id", postID,
			"error", err)
		return fmt.Errorf("failed to finalize task as solved: %w", err)
	}

	logger.Info("post committed", "post_id", postID)
	return nil
}

// fail records err as the task's terminal failure and returns it for
// the worker pool's logging. A finalization race is logged, not
// escalated: by then the task has its terminal state either way.
func (p *ImageProcessor) fail(ctx context.Context, logger *slog.Logger, taskID string, err error) error {
	logger.Warn("job failed", "error", err)

	if finErr := p.ledger.FinalizeFailed(ctx, taskID, err.Error()); finErr != nil {
		logger.Error("failed to finalize failed task", "error", finErr)
	}
	return err
}
