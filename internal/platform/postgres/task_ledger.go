package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mtereshin/picpost-api/internal/platform/logger"
	"github.com/mtereshin/picpost-api/internal/store"
	"github.com/mtereshin/picpost-api/internal/task"
)

// TaskLedger implements task.Ledger on a single tasks table. A task's
// state column is what realizes the "exactly one collection at a time"
// invariant: finalization is a single conditional UPDATE guarded by
// state = 'in_flight', so two finalizers can never both win and a
// reader always sees one consistent state.
type TaskLedger struct {
	db store.DBTX
}

// NewTaskLedger creates a new PostgreSQL-backed task ledger.
func NewTaskLedger(db store.DBTX) *TaskLedger {
	return &TaskLedger{db: db}
}

var (
	_ task.Ledger       = (*TaskLedger)(nil)
	_ task.StaleScanner = (*TaskLedger)(nil)
)

// MarkInFlight implements task.Ledger.MarkInFlight.
func (l *TaskLedger) MarkInFlight(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`

	now := time.Now().UTC()
	if _, err := l.db.ExecContext(ctx, query, id, task.StateInFlight, now); err != nil {
		if IsUniqueViolation(err) {
			return task.ErrAlreadyInFlight
		}
		log.Error("failed to register task in-flight",
			"task_id", id,
			"error", err)
		return fmt.Errorf("failed to register task in-flight: %w", MapError(err))
	}

	return nil
}

// FinalizeSolved implements task.Ledger.FinalizeSolved.
func (l *TaskLedger) FinalizeSolved(ctx context.Context, id string, postID int64) error {
	query := `
		UPDATE tasks
		SET state = $1, post_id = $2, updated_at = $3
		WHERE id = $4 AND state = $5
	`
	return l.finalize(ctx, id, query,
		task.StateSolved, postID, time.Now().UTC(), id, task.StateInFlight)
}

// FinalizeFailed implements task.Ledger.FinalizeFailed.
func (l *TaskLedger) FinalizeFailed(ctx context.Context, id string, errText string) error {
	query := `
		UPDATE tasks
		SET state = $1, error_text = $2, updated_at = $3
		WHERE id = $4 AND state = $5
	`
	return l.finalize(ctx, id, query,
		task.StateFailed, errText, time.Now().UTC(), id, task.StateInFlight)
}

// finalize runs a conditional terminal-state UPDATE and translates
// "zero rows touched" into the precise ledger error.
func (l *TaskLedger) finalize(ctx context.Context, id, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to finalize task",
			"task_id", id,
			"error", err)
		return fmt.Errorf("failed to finalize task: %w", MapError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// The guard lost: either the ID was never issued or another
		// finalization already moved the task to a terminal state.
		var state task.State
		err := l.db.QueryRowContext(ctx, `SELECT state FROM tasks WHERE id = $1`, id).Scan(&state)
		if errors.Is(err, sql.ErrNoRows) {
			return task.ErrTaskNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to inspect task state: %w", MapError(err))
		}
		return task.ErrAlreadyFinalized
	}

	return nil
}

// IsInFlight implements task.Ledger.IsInFlight.
func (l *TaskLedger) IsInFlight(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND state = $2)`

	var inFlight bool
	if err := l.db.QueryRowContext(ctx, query, id, task.StateInFlight).Scan(&inFlight); err != nil {
		return false, fmt.Errorf("failed to check in-flight state: %w", MapError(err))
	}
	return inFlight, nil
}

// LookupSolved implements task.Ledger.LookupSolved.
func (l *TaskLedger) LookupSolved(ctx context.Context, id string) (int64, bool, error) {
	query := `SELECT post_id FROM tasks WHERE id = $1 AND state = $2`

	var postID sql.NullInt64
	err := l.db.QueryRowContext(ctx, query, id, task.StateSolved).Scan(&postID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up solved task: %w", MapError(err))
	}
	return postID.Int64, true, nil
}

// LookupFailed implements task.Ledger.LookupFailed.
func (l *TaskLedger) LookupFailed(ctx context.Context, id string) (string, bool, error) {
	query := `SELECT error_text FROM tasks WHERE id = $1 AND state = $2`

	var errText sql.NullString
	err := l.db.QueryRowContext(ctx, query, id, task.StateFailed).Scan(&errText)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up failed task: %w", MapError(err))
	}
	return errText.String, true, nil
}

// StaleInFlight implements task.StaleScanner. It returns task IDs that
// have been in-flight longer than olderThan, oldest first.
func (l *TaskLedger) StaleInFlight(ctx context.Context, olderThan time.Duration) ([]string, error) {
	query := `
		SELECT id
		FROM tasks
		WHERE state = $1 AND updated_at < $2
		ORDER BY updated_at ASC
	`

	cutoff := time.Now().UTC().Add(-olderThan)
	rows, err := l.db.QueryContext(ctx, query, task.StateInFlight, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale tasks: %w", MapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stale task row: %w", MapError(err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stale task rows: %w", MapError(err))
	}

	return ids, nil
}
