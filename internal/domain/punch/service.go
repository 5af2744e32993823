package punch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer defines the business logic for punch record operations.
type Servicer interface {
	CreateIdempotent(ctx context.Context, userID string, req CreateRequest) (*TimeRecord, bool, error)
	FindByOfflineID(ctx context.Context, userID, offlineID string) (*TimeRecord, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]TimeRecord, error)
	ListDay(ctx context.Context, userID string, day time.Time) ([]TimeRecord, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

type CreateRequest struct {
	OfflineID string       `json:"offline_id,omitempty"`
	Type      Type         `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Device    Device       `json:"device"`
	Location  *GeoLocation `json:"location,omitempty"`
}

// NewService creates a new punch record service.
func NewService(repo Repository, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		log:  log.With("component", "punch_service"),
	}
}

// CreateIdempotent persists a punch with at-most-one-effective-insert
// semantics keyed on the offline id. The bool result reports whether a
// new row was inserted; false means a row with the same offline id was
// already present and is returned as-is.
//
// The pre-insert lookup handles the common retry case cheaply; the
// insert itself may still race another submission for the same offline
// id, in which case the repository's uniqueness constraint fires and
// the existing row is re-queried rather than surfacing an error.
func (s *Service) CreateIdempotent(ctx context.Context, userID string, req CreateRequest) (*TimeRecord, bool, error) {
	pending := PendingRecord{
		OfflineID: req.OfflineID,
		UserID:    userID,
		Type:      req.Type,
		Timestamp: req.Timestamp,
		Device:    req.Device,
		Location:  req.Location,
	}
	if err := pending.Validate(); err != nil {
		return nil, false, err
	}

	if req.OfflineID != "" {
		existing, err := s.repo.FindByOfflineID(ctx, userID, req.OfflineID)
		if err == nil {
			s.log.Debug("duplicate submission suppressed",
				"user_id", userID, "offline_id", req.OfflineID, "record_id", existing.ID)
			return existing, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, fmt.Errorf("check offline id: %w", err)
		}
	}

	record := pending.Confirmed(0)
	id, err := s.repo.Create(ctx, &record)
	if errors.Is(err, ErrDuplicateOfflineID) {
		existing, qerr := s.repo.FindByOfflineID(ctx, userID, req.OfflineID)
		if qerr != nil {
			return nil, false, fmt.Errorf("requery after duplicate insert: %w", qerr)
		}
		s.log.Debug("concurrent duplicate resolved by constraint",
			"user_id", userID, "offline_id", req.OfflineID, "record_id", existing.ID)
		return existing, false, nil
	}
	if err != nil {
		s.log.Error("failed to create record", "user_id", userID, "type", req.Type, "error", err.Error())
		return nil, false, fmt.Errorf("create record: %w", err)
	}

	record.ID = id
	s.log.Info("record created", "record_id", id, "user_id", userID, "type", req.Type)
	return &record, true, nil
}

// FindByOfflineID returns the confirmed record correlated with the
// given offline id, or ErrNotFound.
func (s *Service) FindByOfflineID(ctx context.Context, userID, offlineID string) (*TimeRecord, error) {
	if offlineID == "" {
		return nil, ErrNotFound
	}
	record, err := s.repo.FindByOfflineID(ctx, userID, offlineID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to find record by offline id", "user_id", userID, "offline_id", offlineID, "error", err)
		return nil, fmt.Errorf("find by offline id: %w", err)
	}
	return record, nil
}

// ListRange returns a user's records in [from, to), ordered by
// timestamp ascending. The server's ordering is authoritative across
// devices; client timestamps are advisory.
func (s *Service) ListRange(ctx context.Context, userID string, from, to time.Time) ([]TimeRecord, error) {
	records, err := s.repo.ListRange(ctx, userID, from, to)
	if err != nil {
		s.log.Error("failed to list records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// ListDay returns the user's punches for the calendar day containing
// the given instant, in the day's local zone.
func (s *Service) ListDay(ctx context.Context, userID string, day time.Time) ([]TimeRecord, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.ListRange(ctx, userID, start, start.AddDate(0, 0, 1))
}
