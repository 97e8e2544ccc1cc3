package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/availability"
	"github.com/couchpick/couchpick/internal/config"
	"github.com/couchpick/couchpick/internal/metadata"
	"github.com/couchpick/couchpick/internal/profile"
	"github.com/couchpick/couchpick/internal/recommend"
	"github.com/couchpick/couchpick/internal/scheduler"
	"github.com/couchpick/couchpick/internal/scheduler/tasks"
)

// Version is the application version, stamped at build time.
var Version = "dev"

// Server handles HTTP requests for the CouchPick API.
type Server struct {
	echo   *echo.Echo
	db     *sql.DB
	logger zerolog.Logger
	cfg    *config.Config

	// Services
	metadataService     *metadata.Service
	availabilityService *availability.Service
	recommendService    *recommend.Service
	profileService      *profile.Service
	scheduler           *scheduler.Scheduler
}

// NewServer creates a new API server instance.
func NewServer(db *sql.DB, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	// Initialize services
	s.metadataService = metadata.NewService(cfg.TMDB, logger)
	s.profileService = profile.NewService(db, logger)

	catalog := availability.NewCatalog(cfg.Providers.Allowed)
	s.availabilityService = availability.NewService(s.metadataService, catalog, cfg.TMDB.Region, logger)

	s.recommendService = recommend.NewService(s.metadataService, s.availabilityService, logger)

	// Initialize scheduler with the watch-later availability refresh task
	sched, err := scheduler.New(logger)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched

	refreshTask := tasks.NewAvailabilityRefreshTask(s.profileService, s.availabilityService, &logger)
	if err := tasks.RegisterAvailabilityRefreshTask(sched, refreshTask); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// CORS
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// API v1 group
	api := s.echo.Group("/api/v1")

	// System routes
	api.GET("/status", s.getStatus)

	// Metadata routes (search, cache control, upstream status)
	metadataHandlers := metadata.NewHandlers(s.metadataService)
	metadataHandlers.RegisterRoutes(api.Group("/metadata"))

	// Taste profile and watch-later routes
	profileHandlers := profile.NewHandlers(s.profileService)
	profileHandlers.RegisterRoutes(api)

	// Recommendation routes, seeded from the taste profile
	recommendHandlers := recommend.NewHandlers(s.recommendService, &profileSeeds{service: s.profileService})
	recommendHandlers.RegisterRoutes(api.Group("/recommendations"))

	// Scheduled task routes
	schedulerHandlers := scheduler.NewHandlers(s.scheduler)
	schedulerHandlers.RegisterRoutes(api)
}

// Start begins listening for HTTP requests and starts background tasks.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")

	if err := s.scheduler.Start(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to start scheduler")
	}

	return s.echo.Start(address)
}

// Shutdown gracefully stops the server and background tasks.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.scheduler.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to stop scheduler")
	}

	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// --- Handler implementations ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	liked, err := s.profileService.ListLiked(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":        Version,
		"tmdbConfigured": s.metadataService.IsConfigured(),
		"region":         s.cfg.TMDB.Region,
		"providers":      s.cfg.Providers.Allowed,
		"profileSize":    len(liked),
		"cachedEntries":  s.metadataService.CacheLen(),
	})
}
