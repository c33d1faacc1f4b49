package task

import (
	"context"
	"sync"
)

// MemoryLedger is an in-process Ledger implementation. It offers the
// full atomicity contract under a single mutex but no durability, so
// it is only suitable for tests and single-process development; real
// deployments use the postgres or redis backends.
type MemoryLedger struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	solved   map[string]int64
	failed   map[string]string
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		inFlight: make(map[string]struct{}),
		solved:   make(map[string]int64),
		failed:   make(map[string]string),
	}
}

var _ Ledger = (*MemoryLedger)(nil)

// MarkInFlight implements Ledger.MarkInFlight.
func (l *MemoryLedger) MarkInFlight(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.known(id) {
		return ErrAlreadyInFlight
	}
	l.inFlight[id] = struct{}{}
	return nil
}

// FinalizeSolved implements Ledger.FinalizeSolved.
func (l *MemoryLedger) FinalizeSolved(ctx context.Context, id string, postID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.takeInFlight(id); err != nil {
		return err
	}
	l.solved[id] = postID
	return nil
}

// FinalizeFailed implements Ledger.FinalizeFailed.
func (l *MemoryLedger) FinalizeFailed(ctx context.Context, id string, errText string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.takeInFlight(id); err != nil {
		return err
	}
	l.failed[id] = errText
	return nil
}

// IsInFlight implements Ledger.IsInFlight.
func (l *MemoryLedger) IsInFlight(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.inFlight[id]
	return ok, nil
}

// LookupSolved implements Ledger.LookupSolved.
func (l *MemoryLedger) LookupSolved(ctx context.Context, id string) (int64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	postID, ok := l.solved[id]
	return postID, ok, nil
}

// LookupFailed implements Ledger.LookupFailed.
func (l *MemoryLedger) LookupFailed(ctx context.Context, id string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	errText, ok := l.failed[id]
	return errText, ok, nil
}

// known reports whether the ledger has seen this ID in any state.
// Callers must hold l.mu.
func (l *MemoryLedger) known(id string) bool {
	if _, ok := l.inFlight[id]; ok {
		return true
	}
	if _, ok := l.solved[id]; ok {
		return true
	}
	_, ok := l.failed[id]
	return ok
}

// takeInFlight removes id from the in-flight set, distinguishing
// "never seen" from "already finalized". Callers must hold l.mu.
func (l *MemoryLedger) takeInFlight(id string) error {
	if _, ok := l.inFlight[id]; ok {
		delete(l.inFlight, id)
		return nil
	}
	if _, ok := l.solved[id]; ok {
		return ErrAlreadyFinalized
	}
	if _, ok := l.failed[id]; ok {
		return ErrAlreadyFinalized
	}
	return ErrTaskNotFound
}
