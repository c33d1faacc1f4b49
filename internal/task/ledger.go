package task

import (
	"context"
	"errors"
	"time"
)

// Ledger errors.
var (
	// ErrTaskNotFound is returned when a ledger operation names a task
	// identifier the ledger has never seen.
	ErrTaskNotFound = errors.New("task not found in ledger")

	// ErrAlreadyFinalized is returned when a finalization targets a
	// task that already left the in-flight set. A task is finalized
	// exactly once; a second attempt is a caller bug, not a retry.
	ErrAlreadyFinalized = errors.New("task already finalized")

	// ErrAlreadyInFlight is returned when MarkInFlight is called with
	// an identifier that is already registered. Task IDs are never
	// reused, so this too indicates a caller bug.
	ErrAlreadyInFlight = errors.New("task already registered in-flight")
)

// State is the lifecycle state of a task in the ledger.
type State string

// Every task is in exactly one of these states.
const (
	StateInFlight State = "in_flight"
	StateSolved   State = "solved"
	StateFailed   State = "failed"
)

// Ledger is the durable task-state store. It tracks three disjoint
// collections: the in-flight set, the solved map (task ID to post ID)
// and the failed map (task ID to error text). Finalization removes a
// task from in-flight and inserts it into exactly one terminal
// collection as a single atomic step; a concurrent reader observes
// either the old state or the new one, never both and never neither.
type Ledger interface {
	// MarkInFlight registers a freshly issued task identifier as
	// in-flight. It must complete before the corresponding job becomes
	// consumable by any worker.
	MarkInFlight(ctx context.Context, id string) error

	// FinalizeSolved atomically moves the task from in-flight to
	// solved, recording the post ID produced by the job.
	FinalizeSolved(ctx context.Context, id string, postID int64) error

	// FinalizeFailed atomically moves the task from in-flight to
	// failed, recording a human-readable error description.
	FinalizeFailed(ctx context.Context, id string, errText string) error

	// IsInFlight reports whether the task is currently in-flight.
	IsInFlight(ctx context.Context, id string) (bool, error)

	// LookupSolved returns the post ID for a solved task. The bool is
	// false when the task is not in the solved map.
	LookupSolved(ctx context.Context, id string) (int64, bool, error)

	// LookupFailed returns the error text for a failed task. The bool
	// is false when the task is not in the failed map.
	LookupFailed(ctx context.Context, id string) (string, bool, error)
}

// StaleScanner is implemented by ledger backends that can report tasks
// stuck in-flight longer than a given age. The worker pool's
// reconciliation sweep uses it to fail abandoned tasks; backends
// without in-flight timestamps simply don't implement it.
type StaleScanner interface {
	StaleInFlight(ctx context.Context, olderThan time.Duration) ([]string, error)
}
