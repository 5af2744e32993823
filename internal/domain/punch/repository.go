package punch

import (
	"context"
	"time"
)

// Repository is the persistence contract for confirmed time records.
// Create must enforce uniqueness of OfflineID and return
// ErrDuplicateOfflineID when a row with the same offline id already
// exists; that constraint, not client-side retry suppression, is what
// makes submission idempotent.
type Repository interface {
	Create(ctx context.Context, record *TimeRecord) (int64, error)
	FindByOfflineID(ctx context.Context, userID, offlineID string) (*TimeRecord, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]TimeRecord, error)
}
