package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"punchclock/internal/domain/punch"
)

// ReachabilityChecker reports whether the server is believed reachable.
type ReachabilityChecker interface {
	IsOnline() bool
}

// alwaysOffline is the checker used when no monitor is wired.
type alwaysOffline struct{}

func (alwaysOffline) IsOnline() bool { return false }

// Clock is the single entry point callers use to punch. Whatever the
// network is doing, a valid punch always lands somewhere durable: on
// the server when a direct submission succeeds, in the local queue in
// every other case.
type Clock struct {
	userID    string
	queue     Queue
	submitter Submitter
	reach     ReachabilityChecker
	locator   Locator
	log       *slog.Logger

	now func() time.Time
}

func NewClock(userID string, queue Queue, submitter Submitter, reach ReachabilityChecker, locator Locator, log *slog.Logger) *Clock {
	if reach == nil {
		reach = alwaysOffline{}
	}
	if locator == nil {
		locator = NopLocator{}
	}

	return &Clock{
		userID:    userID,
		queue:     queue,
		submitter: submitter,
		reach:     reach,
		locator:   locator,
		log:       log,
		now:       time.Now,
	}
}

// RecordEntry captures a punch of the given type. The timestamp is
// taken at the moment of the call. The returned record's Synced field
// tells the caller whether the server confirmed it or it is queued
// locally.
func (c *Clock) RecordEntry(ctx context.Context, typ punch.Type, device punch.Device) (punch.TimeRecord, error) {
	location := c.capture(ctx)

	rec := punch.NewPendingRecord(c.userID, typ, device, c.now(), location)
	if err := rec.Validate(); err != nil {
		return punch.TimeRecord{}, err
	}

	if !c.reach.IsOnline() {
		return c.enqueue(rec)
	}

	res := c.submitter.Submit(ctx, rec)
	if res.Confirmed() {
		return *res.Record, nil
	}

	c.log.Debug("direct submission failed, queueing locally",
		slog.String("offline_id", rec.OfflineID),
		slog.String("error", res.Err.Error()))

	return c.enqueue(rec)
}

func (c *Clock) enqueue(rec punch.PendingRecord) (punch.TimeRecord, error) {
	if err := c.queue.Append(rec); err != nil {
		return punch.TimeRecord{}, fmt.Errorf("queue record: %w", err)
	}

	return rec.Unconfirmed(), nil
}

// capture asks the locator for a position, swallowing failures.
func (c *Clock) capture(ctx context.Context) *punch.GeoLocation {
	locCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	loc, err := c.locator.Current(locCtx)
	if err != nil {
		c.log.Debug("location capture failed", slog.String("error", err.Error()))
		return nil
	}
	return loc
}

// Pending returns the number of locally queued records.
func (c *Clock) Pending() (int, error) {
	return c.queue.Count()
}
