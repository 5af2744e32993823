package record

import (
	"time"

	"punchclock/internal/domain/punch"
)

type createInput struct {
	Body createRequest
}

type createRequest struct {
	OfflineID string             `json:"offline_id,omitempty" doc:"Client-generated correlation token for idempotent insert"`
	Type      punch.Type         `json:"type" doc:"Punch event type"`
	Timestamp time.Time          `json:"timestamp" doc:"Instant the event occurred on the client"`
	Device    punch.Device       `json:"device" doc:"Device the punch was recorded from"`
	Location  *punch.GeoLocation `json:"location,omitempty" doc:"Best-effort position fix"`
}

type createOutput struct {
	Status int
	Body   createResponse
}

type createResponse struct {
	Record   punch.TimeRecord `json:"record"`
	Inserted bool             `json:"inserted" doc:"False when a record with the same offline_id already existed"`
}

type findByOfflineIDInput struct {
	OfflineID string `path:"offlineId" doc:"Client-generated correlation token"`
}

type findOutput struct {
	Body punch.TimeRecord
}

type listInput struct {
	From time.Time `query:"from" doc:"Inclusive start of the range"`
	To   time.Time `query:"to" doc:"Exclusive end of the range"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Records []punch.TimeRecord `json:"records"`
	Total   int                `json:"total"`
}
