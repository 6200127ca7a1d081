package tracking

// Action identifies the kind of engagement observation being reported.
type Action string

const (
	ActionStart    Action = "start"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume" // also carries periodic heartbeats
	ActionSeek     Action = "seek"
	ActionComplete Action = "complete"
	ActionAbandon  Action = "abandon"
)

// IsValid reports whether the action is one of the known engagement verbs.
func (a Action) IsValid() bool {
	switch a {
	case ActionStart, ActionPause, ActionResume, ActionSeek, ActionComplete, ActionAbandon:
		return true
	}
	return false
}

// MetadataProgressDelta is the metadata key carrying the signed progress jump
// on seek events.
const MetadataProgressDelta = "progressDelta"

// Event is the wire record for one reported observation. SessionID is zero on
// the first event of a session; the backend assigns one and the dispatcher
// echoes it on subsequent events so the server can correlate them.
type Event struct {
	SessionID          int64          `json:"session_id,omitempty"`
	MaterialID         int64          `json:"material_id"`
	Action             Action         `json:"action"`
	ProgressPercentage float64        `json:"progress_percentage"`
	DurationSeconds    int64          `json:"duration_seconds"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// EventResponse is the backend's reply to an accepted event.
type EventResponse struct {
	SessionID int64  `json:"session_id,omitempty"`
	Status    string `json:"status,omitempty"`
}
