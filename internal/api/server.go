// Package api exposes the dashboard over HTTP: authentication, patient
// timelines, roster management, the alert feed and a websocket alert stream.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/config"
	"github.com/Taby01/SmartUrine-Dash/internal/middleware"
	"github.com/Taby01/SmartUrine-Dash/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	configManager *config.Manager
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server

	auth       *service.AuthService
	roster     *service.RosterService
	alerts     *service.AlertService
	export     *service.ExportService
	classifier *service.ClassifierService
}

// Services bundles the use case dependencies the server routes to.
type Services struct {
	Auth       *service.AuthService
	Roster     *service.RosterService
	Alerts     *service.AlertService
	Export     *service.ExportService
	Classifier *service.ClassifierService
}

// NewServer creates a new HTTP server instance.
func NewServer(configManager *config.Manager, logger *logrus.Logger, services Services) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(limiter.Middleware())
	}

	server := &Server{
		configManager: configManager,
		logger:        logger,
		router:        router,
		auth:          services.Auth,
		roster:        services.Roster,
		alerts:        services.Alerts,
		export:        services.Export,
		classifier:    services.Classifier,
	}

	server.setupRoutes()

	return server
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", addr).Info("HTTP server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/login", s.handleLogin)

		authed := v1.Group("")
		authed.Use(s.requireAuth())
		{
			authed.POST("/logout", s.handleLogout)
			authed.GET("/biomarkers", s.handleBiomarkers)

			authed.GET("/patients/:id", s.handleGetPatient)
			authed.GET("/patients/:id/results/latest", s.handleLatestResult)
			authed.GET("/patients/:id/results", s.handleResultHistory)
			authed.POST("/patients/:id/results", s.handleAddResult)
			authed.POST("/patients/:id/export", s.handleExport)

			authed.GET("/doctors/:id/patients", s.handleRoster)
			authed.POST("/doctors/:id/patients", s.handleAddPatient)
			authed.DELETE("/doctors/:id/patients/:patientId", s.handleRemovePatient)

			authed.GET("/alerts", s.handleAlerts)
			authed.PATCH("/alerts/:id/status", s.handleAlertStatus)
			authed.GET("/alerts/ws", s.handleAlertStream)
		}
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   "1.0.0",
	})
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
