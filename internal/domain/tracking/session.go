// Package tracking provides domain entities for media engagement sessions.
// It defines the session state machine, the tracking event wire record, and
// the threshold policy that bounds telemetry volume.
package tracking

import "time"

// Status represents the lifecycle state of an engagement session
type Status string

const (
	StatusIdle      Status = "idle"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// IsTerminal reports whether no further transitions are allowed from this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Session represents one continuous observation window of a learner consuming
// one material. Accumulated duration counts active wall-clock time only;
// paused intervals are excluded.
type Session struct {
	MaterialID                 int64     `json:"materialId"`
	ServerSessionID            int64     `json:"serverSessionId,omitempty"` // 0 until assigned by the backend
	Status                     Status    `json:"status"`
	ProgressPercentage         float64   `json:"progressPercentage"`
	AccumulatedDurationSeconds int64     `json:"accumulatedDurationSeconds"`
	LastReportedProgress       float64   `json:"lastReportedProgress"`
	StartedAt                  time.Time `json:"startedAt,omitempty"` // zero when not active
}

// NewSession creates an idle session for the given material.
func NewSession(materialID int64) *Session {
	return &Session{
		MaterialID: materialID,
		Status:     StatusIdle,
	}
}

// ElapsedSeconds returns the active-interval seconds since StartedAt as of now.
// Returns 0 when the session is not in an active interval.
func (s *Session) ElapsedSeconds(now time.Time) int64 {
	if s.Status != StatusActive || s.StartedAt.IsZero() {
		return 0
	}
	elapsed := int64(now.Sub(s.StartedAt).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// LiveDurationSeconds returns accumulated duration plus the in-flight active
// interval, without mutating session state.
func (s *Session) LiveDurationSeconds(now time.Time) int64 {
	return s.AccumulatedDurationSeconds + s.ElapsedSeconds(now)
}

// ClampProgress bounds a progress value to the valid [0, 100] range.
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
