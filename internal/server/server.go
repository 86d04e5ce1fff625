package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nebegreg/Timeline-comfyui/internal/config"
	apperrors "github.com/nebegreg/Timeline-comfyui/internal/errors"
	"github.com/nebegreg/Timeline-comfyui/internal/relay"
)

// Server wires the relay core behind the HTTP surface: webhook ingestion,
// the viewer stream endpoint, and observability routes.
type Server struct {
	echo       *echo.Echo
	config     *config.Config
	registry   *relay.Registry
	dispatcher *relay.Dispatcher
	clock      clockwork.Clock
	startTime  time.Time
}

func NewServer(cfg *config.Config, registry *relay.Registry, dispatcher *relay.Dispatcher, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, headerRelayToken},
	}))
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:       e,
		config:     cfg,
		registry:   registry,
		dispatcher: dispatcher,
		clock:      clock,
		startTime:  clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
