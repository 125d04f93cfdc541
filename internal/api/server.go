package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"kepler-responder-go/internal/api/handlers"
	"kepler-responder-go/internal/api/middleware"
	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/services"
)

type Server struct {
	config    *config.Config
	container *services.ServiceContainer
	router    *gin.Engine
	server    *http.Server

	healthHandler         *handlers.HealthHandler
	systemHandler         *handlers.SystemHandler
	recommendationHandler *handlers.RecommendationHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:                cfg,
		container:             container,
		router:                gin.New(),
		healthHandler:         handlers.NewHealthHandler(cfg.WorkerID, cfg.Version, container),
		systemHandler:         handlers.NewSystemHandler(cfg.WorkerID),
		recommendationHandler: handlers.NewRecommendationHandler(container.Engine, container.Metrics),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting Kepler Responder API")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping Kepler Responder API")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}
