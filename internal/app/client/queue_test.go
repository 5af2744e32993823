package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchclock/internal/domain/punch"
)

func testPending(offlineID string, ts time.Time) punch.PendingRecord {
	return punch.PendingRecord{
		OfflineID: offlineID,
		UserID:    "user-1",
		Type:      punch.TypeCheckIn,
		Timestamp: ts,
		Device:    punch.DeviceMobile,
	}
}

func queueImplementations(t *testing.T) map[string]Queue {
	t.Helper()

	sqlite, err := NewSQLiteQueue(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Queue{
		"memory": NewMemoryQueue(),
		"sqlite": sqlite,
	}
}

func TestQueue_AppendPreservesInsertionOrder(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for name, q := range queueImplementations(t) {
		t.Run(name, func(t *testing.T) {
			// Later punches may carry earlier timestamps after a clock
			// adjustment. Drain order still follows insertion order.
			require.NoError(t, q.Append(testPending("a", base.Add(time.Hour))))
			require.NoError(t, q.Append(testPending("b", base)))
			require.NoError(t, q.Append(testPending("c", base.Add(2*time.Hour))))

			recs, err := q.List()
			require.NoError(t, err)
			require.Len(t, recs, 3)
			assert.Equal(t, "a", recs[0].OfflineID)
			assert.Equal(t, "b", recs[1].OfflineID)
			assert.Equal(t, "c", recs[2].OfflineID)
		})
	}
}

func TestQueue_AppendSameOfflineIDIsNoop(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for name, q := range queueImplementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, q.Append(testPending("dup", ts)))
			require.NoError(t, q.Append(testPending("dup", ts)))

			count, err := q.Count()
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestQueue_RemoveIsIdempotent(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for name, q := range queueImplementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, q.Append(testPending("x", ts)))

			require.NoError(t, q.Remove("x"))
			require.NoError(t, q.Remove("x"))
			require.NoError(t, q.Remove("never-existed"))

			count, err := q.Count()
			require.NoError(t, err)
			assert.Equal(t, 0, count)
		})
	}
}

func TestQueue_ReplaceAllSwapsContents(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for name, q := range queueImplementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, q.Append(testPending("old-1", ts)))
			require.NoError(t, q.Append(testPending("old-2", ts)))

			require.NoError(t, q.ReplaceAll([]punch.PendingRecord{
				testPending("new-1", ts),
			}))

			recs, err := q.List()
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, "new-1", recs[0].OfflineID)
		})
	}
}

func TestSQLiteQueue_RoundTripsAllFields(t *testing.T) {
	q, err := NewSQLiteQueue(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer q.Close()

	ts := time.Date(2026, 3, 2, 9, 15, 30, 123456000, time.UTC)
	rec := punch.PendingRecord{
		OfflineID: "round-trip",
		UserID:    "user-42",
		Type:      punch.TypeBreakStart,
		Timestamp: ts,
		Device:    punch.DeviceTotem,
		Location: &punch.GeoLocation{
			Latitude:  -23.5505,
			Longitude: -46.6333,
			Accuracy:  12.5,
			Address:   "Av. Paulista, 1000",
		},
	}

	require.NoError(t, q.Append(rec))

	recs, err := q.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, rec.OfflineID, got.OfflineID)
	assert.Equal(t, rec.UserID, got.UserID)
	assert.Equal(t, rec.Type, got.Type)
	assert.True(t, rec.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, rec.Device, got.Device)
	require.NotNil(t, got.Location)
	assert.Equal(t, *rec.Location, *got.Location)
}

func TestSQLiteQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	q, err := NewSQLiteQueue(path)
	require.NoError(t, err)
	require.NoError(t, q.Append(testPending("persisted", ts)))
	require.NoError(t, q.Close())

	reopened, err := NewSQLiteQueue(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteQueue_FailuresWrapErrStorage(t *testing.T) {
	q, err := NewSQLiteQueue(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	require.NoError(t, q.Close())

	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, q.Append(testPending("x", ts)), ErrStorage)
	_, err = q.List()
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, q.ReplaceAll(nil), ErrStorage)
	_, err = q.Count()
	assert.ErrorIs(t, err, ErrStorage)
}
