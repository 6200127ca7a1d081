package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/persistence/database"
)

// HealthHandlers handles service health and performance endpoints
type HealthHandlers struct {
	db          *database.DB
	perfTracker *performance.Tracker
}

// NewHealthHandlers creates health handlers
func NewHealthHandlers(db *database.DB, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		db:          db,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /api/v1/health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetPerformanceStats handles GET /api/v1/health/performance
func (h *HealthHandlers) GetPerformanceStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.perfTracker.GetOverallStats())
}
