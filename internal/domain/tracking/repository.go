package tracking

import "time"

// SessionRecord is the persisted server-side view of an engagement session.
type SessionRecord struct {
	ID                 int64     `json:"sessionId"`
	MaterialID         int64     `json:"materialId"`
	UserID             string    `json:"userId"`
	Status             Status    `json:"status"`
	ProgressPercentage float64   `json:"progressPercentage"`
	DurationSeconds    int64     `json:"durationSeconds"`
	StartedAt          time.Time `json:"startedAt"`
	LastEventAt        time.Time `json:"lastEventAt"`
}

// InteractionRecord is one persisted observation within a session.
type InteractionRecord struct {
	ID                 string         `json:"id"`
	SessionID          int64          `json:"sessionId"`
	MaterialID         int64          `json:"materialId"`
	UserID             string         `json:"userId"`
	Action             Action         `json:"action"`
	ProgressPercentage float64        `json:"progressPercentage"`
	DurationSeconds    int64          `json:"durationSeconds"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// MaterialAnalytics holds the aggregate engagement figures for one material,
// consumed by professor dashboards.
type MaterialAnalytics struct {
	MaterialID             int64   `json:"materialId"`
	TotalViews             int     `json:"totalViews"`
	UniqueViewers          int     `json:"uniqueViewers"`
	AverageDurationSeconds float64 `json:"averageDurationSeconds"`
	CompletionRate         float64 `json:"completionRate"`
}

// Repository defines the persistence contract for engagement telemetry.
// The engine never touches this; it belongs to the ingestion service.
type Repository interface {
	CreateSession(userID string, materialID int64, startedAt time.Time) (int64, error)
	UpdateSession(sessionID int64, status Status, progress float64, durationSeconds int64, at time.Time) error
	GetSession(sessionID int64) (*SessionRecord, error)
	StoreInteraction(rec *InteractionRecord) error
	GetMaterialAnalytics(materialID int64) (*MaterialAnalytics, error)
	ListSessionsByMaterial(materialID int64) ([]*SessionRecord, error)
	ListInteractionsBySession(sessionID int64) ([]*InteractionRecord, error)
}
