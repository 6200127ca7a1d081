// Package messaging provides the live monitor feed that pushes engagement
// events to connected dashboard clients over websockets.
package messaging

import "time"

// MonitorEvent is the payload pushed to live monitor clients for each
// processed engagement event.
type MonitorEvent struct {
	SessionID          int64     `json:"session_id"`
	MaterialID         int64     `json:"material_id"`
	UserID             string    `json:"user_id"`
	Action             string    `json:"action"`
	ProgressPercentage float64   `json:"progress_percentage"`
	DurationSeconds    int64     `json:"duration_seconds"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// Broadcaster fans processed events out to live monitor clients. Delivery is
// best-effort; a slow client never blocks event ingestion.
type Broadcaster interface {
	BroadcastEvent(evt MonitorEvent)
	ClientCount() int
}
