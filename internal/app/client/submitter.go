package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"punchclock/internal/domain/punch"
)

// Status classifies the outcome of a single submission attempt.
type Status int

const (
	// StatusInserted means the server accepted the record as new.
	StatusInserted Status = iota
	// StatusAlreadyExists means the server already held a record with
	// this offline id. Treated as success.
	StatusAlreadyExists
	// StatusFailed means the attempt did not confirm the record.
	// Result.Retryable distinguishes transient from permanent.
	StatusFailed
)

// Result is the outcome of submitting one pending record.
type Result struct {
	Status    Status
	Record    *punch.TimeRecord
	Err       error
	Retryable bool
}

// Confirmed reports whether the record now durably exists server-side.
func (r Result) Confirmed() bool {
	return r.Status == StatusInserted || r.Status == StatusAlreadyExists
}

// Submitter pushes a single pending record to the server.
type Submitter interface {
	Submit(ctx context.Context, rec punch.PendingRecord) Result
}

// recordAPI is the slice of the server client the submitter needs.
type recordAPI interface {
	GetByOfflineID(ctx context.Context, offlineID string) (*punch.TimeRecord, error)
	CreateRecord(ctx context.Context, rec punch.PendingRecord) (*punch.TimeRecord, bool, error)
}

// RemoteSubmitter submits records over the HTTP API, asking the server
// first whether the offline id is already known so a lost response from
// an earlier attempt never turns into a duplicate row.
type RemoteSubmitter struct {
	api recordAPI
	log *slog.Logger
}

func NewRemoteSubmitter(api recordAPI, log *slog.Logger) *RemoteSubmitter {
	return &RemoteSubmitter{api: api, log: log}
}

func (s *RemoteSubmitter) Submit(ctx context.Context, rec punch.PendingRecord) Result {
	if err := rec.Validate(); err != nil {
		return Result{
			Status:    StatusFailed,
			Err:       err,
			Retryable: false,
		}
	}

	existing, err := s.api.GetByOfflineID(ctx, rec.OfflineID)
	if err == nil {
		s.log.Debug("record already known to server",
			slog.String("offline_id", rec.OfflineID))
		return Result{Status: StatusAlreadyExists, Record: existing}
	}
	if !errors.Is(err, ErrRemoteNotFound) {
		return classifyFailure(fmt.Errorf("lookup before submit: %w", err))
	}

	created, inserted, err := s.api.CreateRecord(ctx, rec)
	if err != nil {
		return classifyFailure(fmt.Errorf("submit record: %w", err))
	}

	if !inserted {
		// Lost the race with a concurrent submission of the same id.
		return Result{Status: StatusAlreadyExists, Record: created}
	}

	return Result{Status: StatusInserted, Record: created}
}

// classifyFailure maps an error to a failed result. Server rejections
// of the payload itself are permanent; everything else, including
// network failures and 5xx responses, is worth retrying.
func classifyFailure(err error) Result {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Permanent() {
		return Result{Status: StatusFailed, Err: err, Retryable: false}
	}

	return Result{Status: StatusFailed, Err: err, Retryable: true}
}
