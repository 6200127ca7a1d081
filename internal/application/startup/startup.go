// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DSR124124/edugen-tracking-go/internal/application/container"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/persistence/database"
	persistence "github.com/DSR124124/edugen-tracking-go/internal/infrastructure/persistence/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/presentation/http/server"
	"github.com/DSR124124/edugen-tracking-go/pkg/config"
)

// Initialize performs the complete startup sequence for the tracking service
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	// Step 1: Initialize channeled logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("EduGen tracking service starting")

	// Step 2: Performance tracker
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	// Step 3: Database connection with retry
	logger.Startup().Info("Connecting to database", "driver", config.DBDriver)
	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBDataSource, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Step 4: Ensure tracking schema
	repo := persistence.NewSQLRepository(db, logger)
	if err := repo.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to ensure tracking schema: %w", err)
	}
	logger.Startup().Info("Tracking schema verified")

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(db, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Background marker cleanup
	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				perfTracker.Cleanup()
			}
		}
	}()

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Disconnecting monitor clients...")
	appContainer.MonitorHub.Shutdown()

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
