package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by queue implementations.
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// QueueReader provides read-only access to the job stream, allowing
// workers to consume jobs without the ability to enqueue.
type QueueReader interface {
	// Jobs returns a receive-only channel of jobs. The channel is
	// closed when the queue shuts down.
	Jobs() <-chan Job
}

// QueueWriter provides write access to the job queue, allowing the
// dispatcher to enqueue jobs for processing.
type QueueWriter interface {
	// Enqueue adds a job to the queue. Returns an error if the queue
	// is full or closed; a nil return means the job is durably handed
	// off to the transport.
	Enqueue(ctx context.Context, job Job) error

	// Close shuts the queue down, preventing further submission.
	Close() error
}

// ChannelQueue is a buffered in-process queue that satisfies both
// QueueReader and QueueWriter. It is the default transport when the
// dispatcher and the workers share a process.
type ChannelQueue struct {
	jobs   chan Job
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewChannelQueue creates a new in-process queue with the specified
// buffer size.
func NewChannelQueue(size int, logger *slog.Logger) *ChannelQueue {
	return &ChannelQueue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job to the queue without blocking. Returns
// ErrQueueFull when the buffer is at capacity and ErrQueueClosed after
// Close.
func (q *ChannelQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			"task_id", job.TaskID,
			"owner_id", job.OwnerID,
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the queue. Workers drain whatever was already buffered
// and then see the channel close.
func (q *ChannelQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
	return nil
}

// Jobs returns a read-only channel for consuming jobs.
func (q *ChannelQueue) Jobs() <-chan Job {
	return q.jobs
}
