// Package server exposes the content service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/xivix/internal/config"
	"github.com/alkime/xivix/internal/content"
	"github.com/alkime/xivix/internal/metrics"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	router  *gin.Engine
	service *content.Service
	metrics *metrics.Metrics
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, svc *content.Service, m *metrics.Metrics) (*Server, error) {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Configure proxy trust for production (Fly.io)
	if cfg.IsProduction() {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}

	if m == nil {
		m = metrics.New()
	}

	server := &Server{
		config:  cfg,
		logger:  logger,
		router:  router,
		service: svc,
		metrics: m,
	}

	router.Use(requestIDMiddleware(), requestLogger(logger), m.Middleware())
	setupSecurityMiddleware(router, cfg, logger)

	if err := server.setupRoutes(); err != nil {
		return nil, err
	}

	return server, nil
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "port", s.config.Port, "provider", s.config.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	limit, err := rateLimitMiddleware(s.config.RateLimit, s.metrics)
	if err != nil {
		return err
	}

	api := s.router.Group("/api", corsMiddleware(s.config.CORSAllowedOrigins))
	{
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		api.GET("/health", s.handleAPIHealth)

		limited := api.Group("", limit)
		limited.POST("/generate", s.handleGenerate)
		limited.POST("/transform", s.handleTransform)
		limited.POST("/reformat", s.handleReformat)
		limited.POST("/bulk-generate", s.handleBulkGenerate)
		limited.POST("/keyword-finder", s.handleKeywordFinder)
	}

	// Admin page; NoRoute only triggers when no explicit route matches
	ui, err := uiFileSystem()
	if err != nil {
		return err
	}
	s.router.NoRoute(serveUI(ui))

	return nil
}

// handleHealth handles the liveness probe
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "xivix",
	})
}
