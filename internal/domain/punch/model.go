package punch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeRecord is a confirmed punch with a server-assigned identity.
// Timestamp is the instant the event occurred on the client, not the
// time the server received it.
type TimeRecord struct {
	ID        int64        `json:"id"`
	UserID    string       `json:"user_id"`
	Type      Type         `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Device    Device       `json:"device"`
	Location  *GeoLocation `json:"location,omitempty"`
	Synced    bool         `json:"synced"`
	OfflineID string       `json:"offline_id,omitempty"`
}

// PendingRecord is a punch that has not been confirmed by the server.
// OfflineID is the durable correlation key: at most one TimeRecord with
// a given OfflineID ever exists remotely, no matter how often a
// submission is retried.
type PendingRecord struct {
	OfflineID string       `json:"offline_id"`
	UserID    string       `json:"user_id"`
	Type      Type         `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Device    Device       `json:"device"`
	Location  *GeoLocation `json:"location,omitempty"`
}

// GeoLocation is a best-effort position fix attached to a punch.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// String formats the location for display, preferring the resolved
// address when one is present.
func (l *GeoLocation) String() string {
	if l == nil {
		return ""
	}
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("lat: %.6f, long: %.6f", l.Latitude, l.Longitude)
}

// NewPendingRecord builds a queueable record with a freshly generated
// offline id.
func NewPendingRecord(userID string, typ Type, device Device, ts time.Time, loc *GeoLocation) PendingRecord {
	return PendingRecord{
		OfflineID: uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Timestamp: ts,
		Device:    device,
		Location:  loc,
	}
}

// Validate checks the fields a record needs before it can be persisted
// remotely. Failures are permanent: retrying an invalid record cannot
// fix it.
func (r PendingRecord) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidRecord)
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if err := r.Device.Validate(); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidRecord)
	}
	return nil
}

// Confirmed converts the pending record into its confirmed form using
// the server-assigned id.
func (r PendingRecord) Confirmed(id int64) TimeRecord {
	return TimeRecord{
		ID:        id,
		UserID:    r.UserID,
		Type:      r.Type,
		Timestamp: r.Timestamp,
		Device:    r.Device,
		Location:  r.Location,
		Synced:    true,
		OfflineID: r.OfflineID,
	}
}

// Unconfirmed returns the record as a locally-tagged TimeRecord, used
// when the caller gets a result back before the punch reached the
// server.
func (r PendingRecord) Unconfirmed() TimeRecord {
	return TimeRecord{
		UserID:    r.UserID,
		Type:      r.Type,
		Timestamp: r.Timestamp,
		Device:    r.Device,
		Location:  r.Location,
		Synced:    false,
		OfflineID: r.OfflineID,
	}
}
