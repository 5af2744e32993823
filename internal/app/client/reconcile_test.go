package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchclock/internal/domain/punch"
	"punchclock/internal/utils/logger"
)

// funcSubmitter routes Submit through a closure.
type funcSubmitter struct {
	fn func(ctx context.Context, rec punch.PendingRecord) Result
}

func (s funcSubmitter) Submit(ctx context.Context, rec punch.PendingRecord) Result {
	return s.fn(ctx, rec)
}

func filledQueue(t *testing.T, ids ...string) Queue {
	t.Helper()

	q := NewMemoryQueue()
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, id := range ids {
		require.NoError(t, q.Append(testPending(id, ts.Add(time.Duration(i)*time.Minute))))
	}
	return q
}

func TestReconciler_DrainsQueueInOrder(t *testing.T) {
	q := filledQueue(t, "a", "b", "c")

	var submitted []string
	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		submitted = append(submitted, rec.OfflineID)
		confirmed := rec.Confirmed(int64(len(submitted)))
		return Result{Status: StatusInserted, Record: &confirmed}
	}}

	r := NewReconciler(q, sub, logger.New("local"))
	report, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Synced)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []string{"a", "b", "c"}, submitted)

	count, err := q.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReconciler_AlreadyExistsCountsAsSynced(t *testing.T) {
	q := filledQueue(t, "dup")

	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		confirmed := rec.Confirmed(1)
		return Result{Status: StatusAlreadyExists, Record: &confirmed}
	}}

	r := NewReconciler(q, sub, logger.New("local"))
	report, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)

	count, _ := q.Count()
	assert.Equal(t, 0, count)
}

func TestReconciler_TransientFailureLeavesRecordQueued(t *testing.T) {
	q := filledQueue(t, "a", "b", "c")

	// The middle record fails with a retryable error. The run must
	// still confirm the records around it.
	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		if rec.OfflineID == "b" {
			return Result{Status: StatusFailed, Err: errors.New("timeout"), Retryable: true}
		}
		confirmed := rec.Confirmed(1)
		return Result{Status: StatusInserted, Record: &confirmed}
	}}

	r := NewReconciler(q, sub, logger.New("local"))
	report, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Synced)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "b")

	recs, err := q.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].OfflineID)
}

func TestReconciler_PermanentRejectionDropsRecord(t *testing.T) {
	q := filledQueue(t, "poison", "good")

	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		if rec.OfflineID == "poison" {
			return Result{Status: StatusFailed, Err: errors.New("invalid record type"), Retryable: false}
		}
		confirmed := rec.Confirmed(1)
		return Result{Status: StatusInserted, Record: &confirmed}
	}}

	r := NewReconciler(q, sub, logger.New("local"))
	report, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "poison")

	// A rejected record must not wedge the queue.
	count, err := q.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReconciler_EmptyQueueIsNoop(t *testing.T) {
	r := NewReconciler(NewMemoryQueue(), funcSubmitter{fn: func(_ context.Context, _ punch.PendingRecord) Result {
		t.Fatal("submitter must not be called on an empty queue")
		return Result{}
	}}, logger.New("local"))

	report, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Synced)
	assert.Zero(t, report.Failed)
}

func TestReconciler_ConcurrentRunReturnsSyncInProgress(t *testing.T) {
	q := filledQueue(t, "slow")

	entered := make(chan struct{})
	release := make(chan struct{})
	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		close(entered)
		<-release
		confirmed := rec.Confirmed(1)
		return Result{Status: StatusInserted, Record: &confirmed}
	}}

	r := NewReconciler(q, sub, logger.New("local"))

	done := make(chan error, 1)
	go func() {
		_, err := r.RunOnce(context.Background())
		done <- err
	}()

	<-entered
	_, err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestReconciler_CancellationPreservesPartialProgress(t *testing.T) {
	q := filledQueue(t, "first", "second")

	ctx, cancel := context.WithCancel(context.Background())
	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		// Cancel after the first record so the loop stops before the
		// second submission.
		cancel()
		confirmed := rec.Confirmed(1)
		return Result{Status: StatusInserted, Record: &confirmed}
	}}

	r := NewReconciler(q, sub, logger.New("local"))
	report, err := r.RunOnce(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.Synced)

	recs, qerr := q.List()
	require.NoError(t, qerr)
	require.Len(t, recs, 1)
	assert.Equal(t, "second", recs[0].OfflineID)
}
