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

	"github.com/Faseeh100/orphancare-web/internal/application/container"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/caching/cleanup"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/server"
	"github.com/Faseeh100/orphancare-web/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("Starting Orphan Care web server...")

	// Step 1: Create dependency injection container (the logger is created here)
	appContainer, err := container.NewContainer(container.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	logger := appContainer.Logger
	defer logger.Close()
	logger.LogStartupPhase("container", time.Since(start), true)
	logger.Startup().Info("Container initialization complete - switching to channeled logging",
		"apiBaseUrl", appContainer.Client.BaseURL())

	// Step 2: Create HTTP server
	startServerTime := time.Now()
	httpServer := server.New(config.Port, appContainer)
	logger.LogStartupPhase("http_server", time.Since(startServerTime), true)

	// Step 3: Start background cleanup worker
	startWorkerTime := time.Now()
	cleanupConfig := cleanup.NewConfig()
	cleanupWorker := cleanup.NewWorker(cleanupConfig, logger)
	cleanupWorker.Register("fetch_views", cleanup.SweepFunc(func(now time.Time) int {
		return appContainer.Fetcher.Sweep(now, cleanupConfig.ViewIdleTTL)
	}))
	cleanupWorker.Register("submissions", cleanup.SweepFunc(appContainer.Guard.Sweep))
	cleanupWorker.Register("confirmations", cleanup.SweepFunc(appContainer.Confirmations.Sweep))
	cleanupWorker.Register("rate_limits", cleanup.SweepFunc(httpServer.Limiter().Sweep))
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background cleanup worker started", "interval", cleanupConfig.CleanupInterval, "duration", time.Since(startWorkerTime))

	// Step 4: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal or a server that could not start
	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			cancelBackgroundTasks()
			<-cleanupWorker.Done()
			return err
		}
	}

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	select {
	case <-cleanupWorker.Done():
		logger.Shutdown().Info("Cleanup worker stopped")
	case <-shutdownCtx.Done():
		logger.Shutdown().Warn("Cleanup worker did not stop before the shutdown timeout")
	}

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
