package client

import (
	"errors"
	"sync"

	"punchclock/internal/domain/punch"
)

// ErrStorage wraps failures of the local queue backend. An operation
// that returns it has not partially written the queue.
var ErrStorage = errors.New("local queue storage error")

// Queue is the durable store of records awaiting server confirmation.
// Records drain in the order they were appended.
type Queue interface {
	// Append adds a record to the end of the queue. Appending an
	// offline id that is already queued is a no-op.
	Append(rec punch.PendingRecord) error

	// List returns all queued records in insertion order.
	List() ([]punch.PendingRecord, error)

	// Remove deletes the record with the given offline id. Removing
	// an absent id is a no-op.
	Remove(offlineID string) error

	// ReplaceAll atomically swaps the queue contents.
	ReplaceAll(recs []punch.PendingRecord) error

	// Count returns the number of queued records.
	Count() (int, error)
}

// MemoryQueue keeps pending records in process memory. It backs tests
// and throwaway sessions; real clients use the SQLite queue.
type MemoryQueue struct {
	mu   sync.Mutex
	recs []punch.PendingRecord
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Append(rec punch.PendingRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, r := range q.recs {
		if r.OfflineID == rec.OfflineID {
			return nil
		}
	}
	q.recs = append(q.recs, rec)
	return nil
}

func (q *MemoryQueue) List() ([]punch.PendingRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]punch.PendingRecord, len(q.recs))
	copy(out, q.recs)
	return out, nil
}

func (q *MemoryQueue) Remove(offlineID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, r := range q.recs {
		if r.OfflineID == offlineID {
			q.recs = append(q.recs[:i], q.recs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *MemoryQueue) ReplaceAll(recs []punch.PendingRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.recs = make([]punch.PendingRecord, len(recs))
	copy(q.recs, recs)
	return nil
}

func (q *MemoryQueue) Count() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.recs), nil
}
