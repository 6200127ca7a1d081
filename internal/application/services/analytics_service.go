package services

import (
	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
)

// AnalyticsService serves read-side engagement aggregates for professors and
// admins.
type AnalyticsService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	repo        tracking.Repository
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, repo tracking.Repository) *AnalyticsService {
	return &AnalyticsService{
		logger:      logger,
		perfTracker: perfTracker,
		repo:        repo,
	}
}

// MaterialAnalyticsResult holds per-material aggregates.
type MaterialAnalyticsResult struct {
	Analytics *tracking.MaterialAnalytics `json:"analytics,omitempty"`
	Success   bool                        `json:"success"`
	Error     string                      `json:"error,omitempty"`
}

// MaterialSessionsResult holds the session list for a material.
type MaterialSessionsResult struct {
	Sessions []*tracking.SessionRecord `json:"sessions"`
	Success  bool                      `json:"success"`
	Error    string                    `json:"error,omitempty"`
}

// SessionInteractionsResult holds the raw interaction trail of one session.
type SessionInteractionsResult struct {
	Interactions []*tracking.InteractionRecord `json:"interactions"`
	Success      bool                          `json:"success"`
	Error        string                        `json:"error,omitempty"`
}

// GetMaterialAnalytics computes view, duration and completion aggregates for
// one material.
func (s *AnalyticsService) GetMaterialAnalytics(materialID int64) *MaterialAnalyticsResult {
	marker := s.perfTracker.StartOperation("get_material_analytics")
	defer marker.Complete()

	if materialID <= 0 {
		return &MaterialAnalyticsResult{Success: false, Error: "material id is required"}
	}

	analytics, err := s.repo.GetMaterialAnalytics(materialID)
	if err != nil {
		s.logger.Analytics().Error("Failed to compute material analytics", "error", err, "materialId", materialID)
		marker.SetError(err)
		return &MaterialAnalyticsResult{Success: false, Error: "failed to compute analytics"}
	}

	marker.SetSuccess(true)
	return &MaterialAnalyticsResult{Analytics: analytics, Success: true}
}

// ListMaterialSessions returns the sessions recorded against a material,
// newest first.
func (s *AnalyticsService) ListMaterialSessions(materialID int64) *MaterialSessionsResult {
	marker := s.perfTracker.StartOperation("list_material_sessions")
	defer marker.Complete()

	if materialID <= 0 {
		return &MaterialSessionsResult{Success: false, Error: "material id is required"}
	}

	sessions, err := s.repo.ListSessionsByMaterial(materialID)
	if err != nil {
		s.logger.Analytics().Error("Failed to list material sessions", "error", err, "materialId", materialID)
		marker.SetError(err)
		return &MaterialSessionsResult{Success: false, Error: "failed to list sessions"}
	}
	if sessions == nil {
		sessions = []*tracking.SessionRecord{}
	}

	marker.SetSuccess(true)
	return &MaterialSessionsResult{Sessions: sessions, Success: true}
}

// ListSessionInteractions returns the full interaction trail of one session
// in arrival order.
func (s *AnalyticsService) ListSessionInteractions(sessionID int64) *SessionInteractionsResult {
	marker := s.perfTracker.StartOperation("list_session_interactions")
	defer marker.Complete()

	if sessionID <= 0 {
		return &SessionInteractionsResult{Success: false, Error: "session id is required"}
	}

	interactions, err := s.repo.ListInteractionsBySession(sessionID)
	if err != nil {
		s.logger.Analytics().Error("Failed to list session interactions", "error", err, "sessionId", sessionID)
		marker.SetError(err)
		return &SessionInteractionsResult{Success: false, Error: "failed to list interactions"}
	}
	if interactions == nil {
		interactions = []*tracking.InteractionRecord{}
	}

	marker.SetSuccess(true)
	return &SessionInteractionsResult{Interactions: interactions, Success: true}
}
