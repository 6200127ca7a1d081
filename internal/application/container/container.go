// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/DSR124124/edugen-tracking-go/internal/application/services"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/messaging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/persistence/database"
	persistence "github.com/DSR124124/edugen-tracking-go/internal/infrastructure/persistence/tracking"
	"github.com/DSR124124/edugen-tracking-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	AuthService      *services.AuthService
	TrackingService  *services.TrackingService
	AnalyticsService *services.AnalyticsService

	// Infrastructure
	DB          *database.DB
	Repository  *persistence.SQLRepository
	MonitorHub  *messaging.MonitorHub
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	repo := persistence.NewSQLRepository(db, logger)
	hub := messaging.NewMonitorHub(config.MonitorClientBuffer, config.MonitorMaxClients, logger)

	authService := services.NewAuthService(logger, services.AuthConfig{
		JWTSecret:         config.JWTSecret,
		TokenTTL:          config.TokenTTL,
		LearnerPassword:   config.LearnerPassword,
		ProfessorPassword: config.ProfessorPassword,
		AdminPassword:     config.AdminPassword,
	})

	return &Container{
		AuthService:      authService,
		TrackingService:  services.NewTrackingService(logger, perfTracker, repo, hub),
		AnalyticsService: services.NewAnalyticsService(logger, perfTracker, repo),

		DB:          db,
		Repository:  repo,
		MonitorHub:  hub,
		Logger:      logger,
		PerfTracker: perfTracker,
	}
}
