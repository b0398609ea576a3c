// Package web provides API routes for the web server.
package web

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts one group of routes
type RouteRegistrar func(api *gin.RouterGroup)

// SetupAPIRoutes mounts every registrar under /api and the metrics endpoint at /metrics
func SetupAPIRoutes(s *Server, registrars ...RouteRegistrar) {
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.Group("/api")
	for _, register := range registrars {
		register(api)
	}
}
