package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/handlers"
)

// Server manages the HTTP server and routes for the subscription API
type Server struct {
	config      *common.Config
	logger      arbor.ILogger
	apiHandler  *handlers.APIHandler
	pushHandler *handlers.PushHandler
	router      *http.ServeMux
	server      *http.Server
}

// New creates a new HTTP server
func New(config *common.Config, pushHandler *handlers.PushHandler, logger arbor.ILogger) *Server {
	s := &Server{
		config:      config,
		logger:      logger,
		apiHandler:  handlers.NewAPIHandler(),
		pushHandler: pushHandler,
	}

	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - System
	mux.HandleFunc("/api/version", s.apiHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.apiHandler.HealthHandler)

	// API routes - Web push subscriptions (behind optional basic auth)
	mux.HandleFunc("/api/vapid-public-key", s.withBasicAuth(s.pushHandler.VapidPublicKeyHandler))
	mux.HandleFunc("/api/destinations", s.withBasicAuth(s.pushHandler.DestinationsHandler))
	mux.HandleFunc("/api/subscribe", s.withBasicAuth(s.pushHandler.SubscribeRouteHandler))

	// 404 for everything else
	mux.HandleFunc("/", s.apiHandler.NotFoundHandler)

	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.logger.Info().
		Str("address", addr).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
