// Package services provides application-level orchestration services
package services

import (
	"fmt"
	"time"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/messaging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/security"
)

// TrackingService ingests engagement events: it owns session row lifecycle,
// interaction persistence, and the live monitor feed.
type TrackingService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	repo        tracking.Repository
	broadcaster messaging.Broadcaster
}

// NewTrackingService creates a new tracking ingestion service.
func NewTrackingService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, repo tracking.Repository, broadcaster messaging.Broadcaster) *TrackingService {
	return &TrackingService{
		logger:      logger,
		perfTracker: perfTracker,
		repo:        repo,
		broadcaster: broadcaster,
	}
}

// TrackingResult holds the outcome of processing one engagement event.
type TrackingResult struct {
	SessionID int64  `json:"session_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// ProcessEvent validates and persists one engagement event on behalf of the
// authenticated user. A start event (or any event arriving without a session
// id) opens a new session row; every event is recorded as an interaction and
// rolled into the session row's latest state.
func (s *TrackingService) ProcessEvent(userID string, role user.Role, evt tracking.Event) *TrackingResult {
	marker := s.perfTracker.StartOperation("process_tracking_event")
	defer marker.Complete()

	if !role.CanTrack() {
		return &TrackingResult{Success: false, Error: "role does not produce tracking telemetry"}
	}
	if !evt.Action.IsValid() {
		return &TrackingResult{Success: false, Error: fmt.Sprintf("unknown action %q", evt.Action)}
	}
	if evt.MaterialID <= 0 {
		return &TrackingResult{Success: false, Error: "material_id is required"}
	}

	now := time.Now().UTC()
	progress := tracking.ClampProgress(evt.ProgressPercentage)

	sessionID := evt.SessionID
	if evt.Action == tracking.ActionStart || sessionID == 0 {
		id, err := s.repo.CreateSession(userID, evt.MaterialID, now)
		if err != nil {
			s.logger.Tracking().Error("Failed to create tracking session", "error", err, "userId", userID, "materialId", evt.MaterialID)
			marker.SetError(err)
			return &TrackingResult{Success: false, Error: "failed to create session"}
		}
		sessionID = id
	} else {
		existing, err := s.repo.GetSession(sessionID)
		if err != nil {
			s.logger.Tracking().Error("Failed to load tracking session", "error", err, "sessionId", sessionID)
			marker.SetError(err)
			return &TrackingResult{Success: false, Error: "failed to load session"}
		}
		if existing == nil {
			// The client's cached id may outlive a server-side purge.
			// Fail soft: open a fresh session rather than reject the event.
			s.logger.Tracking().Warn("Unknown session id on event, opening new session", "sessionId", sessionID, "userId", userID)
			id, err := s.repo.CreateSession(userID, evt.MaterialID, now)
			if err != nil {
				marker.SetError(err)
				return &TrackingResult{Success: false, Error: "failed to create session"}
			}
			sessionID = id
		}
	}

	status := statusForAction(evt.Action)
	if err := s.repo.UpdateSession(sessionID, status, progress, evt.DurationSeconds, now); err != nil {
		s.logger.Tracking().Error("Failed to update tracking session", "error", err, "sessionId", sessionID)
		marker.SetError(err)
		return &TrackingResult{Success: false, Error: "failed to update session"}
	}

	interaction := &tracking.InteractionRecord{
		ID:                 security.GenerateULID(),
		SessionID:          sessionID,
		MaterialID:         evt.MaterialID,
		UserID:             userID,
		Action:             evt.Action,
		ProgressPercentage: progress,
		DurationSeconds:    evt.DurationSeconds,
		Metadata:           evt.Metadata,
		CreatedAt:          now,
	}
	if err := s.repo.StoreInteraction(interaction); err != nil {
		s.logger.Tracking().Error("Failed to store interaction", "error", err, "sessionId", sessionID, "action", evt.Action)
		marker.SetError(err)
		return &TrackingResult{Success: false, Error: "failed to store interaction"}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(messaging.MonitorEvent{
			SessionID:          sessionID,
			MaterialID:         evt.MaterialID,
			UserID:             userID,
			Action:             string(evt.Action),
			ProgressPercentage: progress,
			DurationSeconds:    evt.DurationSeconds,
			Status:             string(status),
			OccurredAt:         now,
		})
	}

	s.logger.Tracking().Debug("Tracking event processed",
		"sessionId", sessionID,
		"materialId", evt.MaterialID,
		"action", evt.Action,
		"progress", progress)
	marker.SetSuccess(true)

	return &TrackingResult{SessionID: sessionID, Status: string(status), Success: true}
}

// statusForAction maps an engagement verb onto the session status it leaves
// the session in. Start, resume and seek all indicate active consumption.
func statusForAction(action tracking.Action) tracking.Status {
	switch action {
	case tracking.ActionPause:
		return tracking.StatusPaused
	case tracking.ActionComplete:
		return tracking.StatusCompleted
	case tracking.ActionAbandon:
		return tracking.StatusAbandoned
	default:
		return tracking.StatusActive
	}
}
