package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Event ingestion from the job runner (shared-token auth, no viewer auth)
	s.echo.POST("/webhook/modal", s.handleWebhook)

	// Viewer stream endpoint (bearer auth when configured)
	s.echo.GET("/stream", s.handleStream)
}
