package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

type postServiceFixture struct {
	svc    *PostService
	ledger *task.MemoryLedger
	queue  *recordingQueue
	posts  *fakePostStore
}

func newPostServiceFixture(userIDs ...int64) *postServiceFixture {
	users := newFakeUserDirectory(userIDs...)
	ledger := task.NewMemoryLedger()
	queue := &recordingQueue{}
	posts := newFakePostStore()

	svc := NewPostService(users, NewTagValidator(users), posts, ledger, queue, testLogger())
	return &postServiceFixture{svc: svc, ledger: ledger, queue: queue, posts: posts}
}

func validSubmission(tagged ...int64) *domain.Submission {
	return &domain.Submission{
		Image:         []byte{0xff, 0xd8, 0xff, 0xe0},
		Description:   "a picture",
		TaggedUserIDs: tagged,
	}
}

func TestSubmitPostAccepts(t *testing.T) {
	ctx := context.Background()
	f := newPostServiceFixture(1, 2, 3)

	receipt, err := f.svc.SubmitPost(ctx, 1, validSubmission(2, 3))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, AcceptedStatus, receipt.Status)
	assert.NotEmpty(t, receipt.TaskID)

	// The accepted task is observable in-flight immediately.
	inFlight, err := f.ledger.IsInFlight(ctx, receipt.TaskID)
	require.NoError(t, err)
	assert.True(t, inFlight)

	// The queued job carries the same task ID the ledger registered.
	jobs := f.queue.enqueued()
	require.Len(t, jobs, 1)
	assert.Equal(t, receipt.TaskID, jobs[0].TaskID)
	assert.Equal(t, int64(1), jobs[0].OwnerID)
	assert.Equal(t, []int64{2, 3}, jobs[0].TaggedUserIDs)
}

func TestSubmitPostRejections(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		ownerID int64
		sub     *domain.Submission
		wantErr error
	}{
		{"unknown owner", 42, validSubmission(), domain.ErrUserNotFound},
		{"duplicate tags", 1, validSubmission(2, 2), domain.ErrDuplicateTag},
		{"self tag", 1, validSubmission(1), domain.ErrSelfTag},
		{"unknown tagged user", 1, validSubmission(2, 99), domain.ErrUnknownTaggedUser},
		{"empty image", 1, &domain.Submission{Description: "x"}, domain.ErrEmptyImage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPostServiceFixture(1, 2, 3)

			_, err := f.svc.SubmitPost(ctx, tc.ownerID, tc.sub)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, IsRejection(err))

			// A rejected submission mutates nothing: no job, no task.
			assert.Empty(t, f.queue.enqueued())
		})
	}
}

func TestSubmitPostEnqueueFailureFailsTask(t *testing.T) {
	ctx := context.Background()
	f := newPostServiceFixture(1)
	f.queue.enqueueErr = task.ErrQueueFull

	_, err := f.svc.SubmitPost(ctx, 1, validSubmission())
	require.ErrorIs(t, err, task.ErrQueueFull)
	assert.False(t, IsRejection(err))
}

func TestSubmitPostConcurrentDispatch(t *testing.T) {
	ctx := context.Background()
	f := newPostServiceFixture(1)

	const n = 20
	receipts := make([]*SubmitReceipt, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := f.svc.SubmitPost(ctx, 1, validSubmission())
			assert.NoError(t, err)
			receipts[i] = r
		}(i)
	}
	wg.Wait()

	// N dispatches yield N distinct task IDs, all in-flight.
	ids := make(map[string]struct{}, n)
	for _, r := range receipts {
		require.NotNil(t, r)
		ids[r.TaskID] = struct{}{}

		inFlight, err := f.ledger.IsInFlight(ctx, r.TaskID)
		require.NoError(t, err)
		assert.True(t, inFlight)
	}
	assert.Len(t, ids, n)
	assert.Len(t, f.queue.enqueued(), n)
}

func TestTaskOutcome(t *testing.T) {
	ctx := context.Background()
	f := newPostServiceFixture(1)

	require.NoError(t, f.ledger.MarkInFlight(ctx, "pending-task"))
	require.NoError(t, f.ledger.MarkInFlight(ctx, "won-task"))
	require.NoError(t, f.ledger.MarkInFlight(ctx, "lost-task"))
	require.NoError(t, f.ledger.FinalizeSolved(ctx, "won-task", 7))
	require.NoError(t, f.ledger.FinalizeFailed(ctx, "lost-task", "bad image"))

	t.Run("in flight", func(t *testing.T) {
		status, err := f.svc.TaskOutcome(ctx, "pending-task")
		require.NoError(t, err)
		assert.Equal(t, task.StateInFlight, status.State)
	})

	t.Run("solved", func(t *testing.T) {
		status, err := f.svc.TaskOutcome(ctx, "won-task")
		require.NoError(t, err)
		assert.Equal(t, task.StateSolved, status.State)
		assert.Equal(t, int64(7), status.PostID)
	})

	t.Run("failed", func(t *testing.T) {
		status, err := f.svc.TaskOutcome(ctx, "lost-task")
		require.NoError(t, err)
		assert.Equal(t, task.StateFailed, status.State)
		assert.Equal(t, "bad image", status.Error)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := f.svc.TaskOutcome(ctx, "no-such-task")
		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}
