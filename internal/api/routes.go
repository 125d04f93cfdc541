package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.POST("/recommendations", s.recommendationHandler.Create)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
		system.GET("/debug", s.systemHandler.GetDebugInfo)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.container.Metrics.Registry(), promhttp.HandlerOpts{})))
}
