// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/DSR124124/edugen-tracking-go/internal/application/container"
	"github.com/DSR124124/edugen-tracking-go/internal/presentation/http/handlers"
	"github.com/DSR124124/edugen-tracking-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	trackingHandlers := handlers.NewTrackingHandlers(container.TrackingService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.Logger, container.PerfTracker)
	monitorHandlers := handlers.NewMonitorHandlers(container.MonitorHub, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)
		api.GET("/health/performance", healthHandlers.GetPerformanceStats)

		api.POST("/auth/login", authHandlers.PostLogin)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(container.AuthService))
		{
			authed.POST("/tracking/events", trackingHandlers.PostEvent)

			analytics := authed.Group("/analytics")
			analytics.Use(middleware.RequireAnalyticsRole())
			{
				analytics.GET("/materials/:id", analyticsHandlers.GetMaterialAnalytics)
				analytics.GET("/materials/:id/sessions", analyticsHandlers.GetMaterialSessions)
				analytics.GET("/sessions/:id/interactions", analyticsHandlers.GetSessionInteractions)
			}

			monitor := authed.Group("/monitor")
			monitor.Use(middleware.RequireAnalyticsRole())
			{
				monitor.GET("/stream", monitorHandlers.GetMonitorStream)
				monitor.GET("/status", monitorHandlers.GetMonitorStatus)
			}
		}
	}

	return r
}
