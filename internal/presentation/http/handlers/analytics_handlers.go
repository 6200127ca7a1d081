package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DSR124124/edugen-tracking-go/internal/application/services"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
)

// AnalyticsHandlers handles engagement analytics endpoints
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetMaterialAnalytics handles GET /api/v1/analytics/materials/:id
func (h *AnalyticsHandlers) GetMaterialAnalytics(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handle_material_analytics")
	defer marker.Complete()

	materialID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result := h.analyticsService.GetMaterialAnalytics(materialID)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result.Analytics)
}

// GetMaterialSessions handles GET /api/v1/analytics/materials/:id/sessions
func (h *AnalyticsHandlers) GetMaterialSessions(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handle_material_sessions")
	defer marker.Complete()

	materialID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result := h.analyticsService.ListMaterialSessions(materialID)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"sessions": result.Sessions})
}

// GetSessionInteractions handles GET /api/v1/analytics/sessions/:id/interactions
func (h *AnalyticsHandlers) GetSessionInteractions(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handle_session_interactions")
	defer marker.Complete()

	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result := h.analyticsService.ListSessionInteractions(sessionID)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"interactions": result.Interactions})
}

// pathID parses a positive integer path parameter, writing the error response
// itself on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}
