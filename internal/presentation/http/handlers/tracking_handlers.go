// Package handlers provides HTTP handlers for the tracking API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DSR124124/edugen-tracking-go/internal/application/services"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
	"github.com/DSR124124/edugen-tracking-go/internal/presentation/http/middleware"
)

// TrackingHandlers handles engagement event ingestion endpoints
type TrackingHandlers struct {
	trackingService *services.TrackingService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewTrackingHandlers creates tracking event handlers
func NewTrackingHandlers(trackingService *services.TrackingService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *TrackingHandlers {
	return &TrackingHandlers{
		trackingService: trackingService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// PostEvent handles POST /api/v1/tracking/events
func (h *TrackingHandlers) PostEvent(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handle_post_tracking_event")
	defer marker.Complete()

	userID, role, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var evt tracking.Event
	if err := c.ShouldBindJSON(&evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.trackingService.ProcessEvent(userID, role, evt)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"session_id": result.SessionID,
		"status":     result.Status,
	})
}
