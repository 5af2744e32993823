package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchclock/internal/domain/punch"
	"punchclock/internal/utils/logger"
)

type staticReach bool

func (r staticReach) IsOnline() bool { return bool(r) }

func TestClock_OfflinePunchLandsInQueue(t *testing.T) {
	q := NewMemoryQueue()
	sub := funcSubmitter{fn: func(_ context.Context, _ punch.PendingRecord) Result {
		t.Fatal("offline punch must not hit the network")
		return Result{}
	}}

	c := NewClock("user-1", q, sub, staticReach(false), nil, logger.New("local"))
	rec, err := c.RecordEntry(context.Background(), punch.TypeCheckIn, punch.DeviceMobile)

	require.NoError(t, err)
	assert.False(t, rec.Synced)
	assert.NotEmpty(t, rec.OfflineID)
	assert.Equal(t, "user-1", rec.UserID)

	count, err := q.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClock_OnlinePunchIsConfirmedDirectly(t *testing.T) {
	q := NewMemoryQueue()
	sub := funcSubmitter{fn: func(_ context.Context, rec punch.PendingRecord) Result {
		confirmed := rec.Confirmed(11)
		return Result{Status: StatusInserted, Record: &confirmed}
	}}

	c := NewClock("user-1", q, sub, staticReach(true), nil, logger.New("local"))
	rec, err := c.RecordEntry(context.Background(), punch.TypeCheckOut, punch.DeviceWeb)

	require.NoError(t, err)
	assert.True(t, rec.Synced)
	assert.Equal(t, int64(11), rec.ID)

	count, err := q.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClock_FailedSubmissionFallsBackToQueue(t *testing.T) {
	q := NewMemoryQueue()
	sub := funcSubmitter{fn: func(_ context.Context, _ punch.PendingRecord) Result {
		return Result{Status: StatusFailed, Err: errors.New("connection reset"), Retryable: true}
	}}

	c := NewClock("user-1", q, sub, staticReach(true), nil, logger.New("local"))
	rec, err := c.RecordEntry(context.Background(), punch.TypeBreakStart, punch.DeviceMobile)

	// The punch is never lost: the failed submission parks it locally.
	require.NoError(t, err)
	assert.False(t, rec.Synced)

	recs, qerr := q.List()
	require.NoError(t, qerr)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.OfflineID, recs[0].OfflineID)
}

func TestClock_InvalidPunchIsRejected(t *testing.T) {
	q := NewMemoryQueue()
	c := NewClock("user-1", q, nil, staticReach(false), nil, logger.New("local"))

	_, err := c.RecordEntry(context.Background(), "nap", punch.DeviceMobile)

	assert.ErrorIs(t, err, punch.ErrInvalidRecord)

	count, qerr := q.Count()
	require.NoError(t, qerr)
	assert.Equal(t, 0, count)
}

func TestClock_LocatorFailureDoesNotBlockPunch(t *testing.T) {
	q := NewMemoryQueue()
	c := NewClock("user-1", q, nil, staticReach(false), failingLocator{}, logger.New("local"))

	rec, err := c.RecordEntry(context.Background(), punch.TypeCheckIn, punch.DeviceMobile)

	require.NoError(t, err)
	assert.Nil(t, rec.Location)
}

func TestClock_StaticLocatorAttachesPosition(t *testing.T) {
	q := NewMemoryQueue()
	loc := &StaticLocator{Location: punch.GeoLocation{Latitude: 1.5, Longitude: 2.5, Address: "HQ lobby"}}
	c := NewClock("user-1", q, nil, staticReach(false), loc, logger.New("local"))

	rec, err := c.RecordEntry(context.Background(), punch.TypeCheckIn, punch.DeviceTotem)

	require.NoError(t, err)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "HQ lobby", rec.Location.Address)
}

func TestClock_EachPunchGetsFreshOfflineID(t *testing.T) {
	q := NewMemoryQueue()
	c := NewClock("user-1", q, nil, staticReach(false), nil, logger.New("local"))

	first, err := c.RecordEntry(context.Background(), punch.TypeCheckIn, punch.DeviceMobile)
	require.NoError(t, err)
	second, err := c.RecordEntry(context.Background(), punch.TypeBreakStart, punch.DeviceMobile)
	require.NoError(t, err)

	assert.NotEqual(t, first.OfflineID, second.OfflineID)
}

type failingLocator struct{}

func (failingLocator) Current(_ context.Context) (*punch.GeoLocation, error) {
	return nil, errors.New("gps unavailable")
}
