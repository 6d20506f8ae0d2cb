// Package server provides HTTP server initialization and management.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Faseeh100/orphancare-web/internal/application/container"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/routes"
	"github.com/Faseeh100/orphancare-web/pkg/config"
)

// Server wraps the HTTP server with configuration and dependency injection
type Server struct {
	httpServer *http.Server
	container  *container.Container
	limiter    *middleware.FormLimiter
}

// New creates a new HTTP server instance with dependency injection
func New(port string, container *container.Container) *Server {
	router, limiter := routes.SetupRoutes(container)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		container:  container,
		limiter:    limiter,
	}
}

// Limiter is the form rate limiter the routes share
func (s *Server) Limiter() *middleware.FormLimiter {
	return s.limiter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.container.Logger.System().Info("Starting HTTP server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
