package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"
)

// ErrSyncInProgress is returned when a reconciliation run is requested
// while another one is still draining the queue.
var ErrSyncInProgress = errors.New("reconciliation already in progress")

// Report summarizes one reconciliation run.
type Report struct {
	// Synced counts records confirmed by the server, including ones
	// it already had.
	Synced int
	// Failed counts records that stayed queued or were dropped as
	// invalid.
	Failed int
	// Errors holds one message per failed record.
	Errors []string
}

// Reconciler drains the local queue into the server, oldest record
// first. At most one run is active at a time across the process.
type Reconciler struct {
	queue     Queue
	submitter Submitter
	log       *slog.Logger

	mu sync.Mutex
}

func NewReconciler(queue Queue, submitter Submitter, log *slog.Logger) *Reconciler {
	return &Reconciler{
		queue:     queue,
		submitter: submitter,
		log:       log,
	}
}

// RunOnce performs a single drain of the queue. Each record is handled
// independently: a confirmed record leaves the queue, a transiently
// failed one stays for the next run, and a record the server will never
// accept is dropped and reported. Partial progress survives
// cancellation because every removal is committed as it happens.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	if !r.mu.TryLock() {
		return Report{}, ErrSyncInProgress
	}
	defer r.mu.Unlock()

	pending, err := r.queue.List()
	if err != nil {
		return Report{}, fmt.Errorf("read queue: %w", err)
	}

	if len(pending) == 0 {
		return Report{}, nil
	}

	r.log.Info("reconciliation started", slog.Int("pending", len(pending)))

	var report Report
	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			r.log.Info("reconciliation interrupted",
				slog.Int("synced", report.Synced),
				slog.Int("remaining", len(pending)-report.Synced-report.Failed))
			return report, err
		}

		res := r.submitter.Submit(ctx, rec)
		switch {
		case res.Confirmed():
			if err := r.queue.Remove(rec.OfflineID); err != nil {
				// The server has the record. Leaving it queued is
				// safe: the next run resolves it as already-exists.
				report.Failed++
				report.Errors = append(report.Errors,
					fmt.Sprintf("%s: remove after confirm: %v", rec.OfflineID, err))
				continue
			}
			report.Synced++

		case res.Retryable:
			report.Failed++
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s: %v", rec.OfflineID, res.Err))
			r.log.Debug("record submission failed, will retry",
				slog.String("offline_id", rec.OfflineID),
				slog.String("error", res.Err.Error()))

		default:
			// The server will never accept this record. Keeping it
			// queued would wedge the drain forever.
			if err := r.queue.Remove(rec.OfflineID); err != nil {
				report.Failed++
				report.Errors = append(report.Errors,
					fmt.Sprintf("%s: remove rejected record: %v", rec.OfflineID, err))
				continue
			}
			report.Failed++
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s: rejected by server, dropped: %v", rec.OfflineID, res.Err))
			r.log.Warn("record rejected by server and dropped from queue",
				slog.String("offline_id", rec.OfflineID),
				slog.String("error", res.Err.Error()))
		}
	}

	r.log.Info("reconciliation finished",
		slog.Int("synced", report.Synced),
		slog.Int("failed", report.Failed))

	return report, nil
}

// Pending returns the number of records awaiting confirmation.
func (r *Reconciler) Pending() (int, error) {
	return r.queue.Count()
}
