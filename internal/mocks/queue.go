package mocks

import (
	"context"
	"sync"

	"github.com/mtereshin/picpost-api/internal/task"
)

// MockQueueWriter implements task.QueueWriter, recording every
// enqueued job.
type MockQueueWriter struct {
	// EnqueueFn, when non-nil, replaces the default behavior.
	EnqueueFn func(ctx context.Context, job task.Job) error

	mu   sync.Mutex
	jobs []task.Job
}

var _ task.QueueWriter = (*MockQueueWriter)(nil)

func (q *MockQueueWriter) Enqueue(ctx context.Context, job task.Job) error {
	if q.EnqueueFn != nil {
		return q.EnqueueFn(ctx, job)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *MockQueueWriter) Close() error { return nil }

// Enqueued returns a copy of the recorded jobs.
func (q *MockQueueWriter) Enqueued() []task.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]task.Job(nil), q.jobs...)
}
