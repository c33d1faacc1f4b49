// Package redis provides the Redis implementation of the task ledger:
// an in-flight set plus solved and failed hashes, mutated atomically.
package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mtereshin/picpost-api/internal/task"
)

// Redis keys for the three ledger collections.
const (
	inFlightKey = "tasks:in_flight"
	solvedKey   = "tasks:solved"
	failedKey   = "tasks:failed"
)

// Script results for markScript and finalizeScript.
const (
	scriptOK            = 1
	scriptAlreadyKnown  = 0
	scriptNotInFlight   = -1
	scriptAlreadyClosed = -2
)

// markScript registers an ID in-flight unless the ledger has seen it
// in any collection before.
var markScript = redis.NewScript(`
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 1
   or redis.call("HEXISTS", KEYS[2], ARGV[1]) == 1
   or redis.call("HEXISTS", KEYS[3], ARGV[1]) == 1 then
  return 0
end
redis.call("SADD", KEYS[1], ARGV[1])
return 1
`)

// finalizeScript moves an ID from the in-flight set into one terminal
// hash. Running as a script makes the remove-and-insert a single
// atomic step: no reader ever observes the task in neither or both
// collections, and only the first finalizer wins.
var finalizeScript = redis.NewScript(`
if redis.call("SREM", KEYS[1], ARGV[1]) == 1 then
  redis.call("HSET", KEYS[2], ARGV[1], ARGV[2])
  return 1
end
if redis.call("HEXISTS", KEYS[2], ARGV[1]) == 1
   or redis.call("HEXISTS", KEYS[3], ARGV[1]) == 1 then
  return -2
end
return -1
`)

// TaskLedger implements task.Ledger on Redis. It does not implement
// task.StaleScanner: the set layout carries no timestamps, so the
// stale sweep is only available with the postgres backend.
type TaskLedger struct {
	client *redis.Client
}

// NewTaskLedger creates a Redis-backed ledger on the given client.
func NewTaskLedger(client *redis.Client) *TaskLedger {
	return &TaskLedger{client: client}
}

var _ task.Ledger = (*TaskLedger)(nil)

// MarkInFlight implements task.Ledger.MarkInFlight.
func (l *TaskLedger) MarkInFlight(ctx context.Context, id string) error {
	res, err := markScript.Run(ctx, l.client,
		[]string{inFlightKey, solvedKey, failedKey}, id).Int()
	if err != nil {
		return fmt.Errorf("failed to register task in-flight: %w", err)
	}
	if res == scriptAlreadyKnown {
		return task.ErrAlreadyInFlight
	}
	return nil
}

// FinalizeSolved implements task.Ledger.FinalizeSolved.
func (l *TaskLedger) FinalizeSolved(ctx context.Context, id string, postID int64) error {
	return l.finalize(ctx, id, solvedKey, failedKey, strconv.FormatInt(postID, 10))
}

// FinalizeFailed implements task.Ledger.FinalizeFailed.
func (l *TaskLedger) FinalizeFailed(ctx context.Context, id string, errText string) error {
	return l.finalize(ctx, id, failedKey, solvedKey, errText)
}

// finalize runs the atomic move into targetKey; otherKey is the other
// terminal hash, consulted only to tell "finalized twice" apart from
// "never issued".
func (l *TaskLedger) finalize(ctx context.Context, id, targetKey, otherKey, value string) error {
	res, err := finalizeScript.Run(ctx, l.client,
		[]string{inFlightKey, targetKey, otherKey}, id, value).Int()
	if err != nil {
		return fmt.Errorf("failed to finalize task: %w", err)
	}

	switch res {
	case scriptOK:
		return nil
	case scriptAlreadyClosed:
		return task.ErrAlreadyFinalized
	default:
		return task.ErrTaskNotFound
	}
}

// IsInFlight implements task.Ledger.IsInFlight.
func (l *TaskLedger) IsInFlight(ctx context.Context, id string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, inFlightKey, id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check in-flight state: %w", err)
	}
	return ok, nil
}

// LookupSolved implements task.Ledger.LookupSolved.
func (l *TaskLedger) LookupSolved(ctx context.Context, id string) (int64, bool, error) {
	val, err := l.client.HGet(ctx, solvedKey, id).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up solved task: %w", err)
	}

	postID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt post ID %q for task %s: %w", val, id, err)
	}
	return postID, true, nil
}

// LookupFailed implements task.Ledger.LookupFailed.
func (l *TaskLedger) LookupFailed(ctx context.Context, id string) (string, bool, error) {
	val, err := l.client.HGet(ctx, failedKey, id).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up failed task: %w", err)
	}
	return val, true, nil
}
