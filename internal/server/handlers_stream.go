package server

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	apperrors "github.com/nebegreg/Timeline-comfyui/internal/errors"
	"github.com/nebegreg/Timeline-comfyui/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // desktop viewers connect from app webviews, not browsers
	},
}

// handleStream admits one viewer connection: auth check, upgrade, register,
// then block reading until the peer goes away. Inbound frames from viewers
// are not part of the event model and are discarded.
func (s *Server) handleStream(c echo.Context) error {
	tenant := c.QueryParam("tenant")
	if tenant == "" {
		return apperrors.ValidationError("tenant query parameter is required")
	}

	if s.config.ClientAuthEnforced() {
		supplied := c.Request().Header.Get(echo.HeaderAuthorization)
		expected := "Bearer " + s.config.ClientBearerToken
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
			// Reject before the handshake completes so the viewer sees a
			// 401 instead of a half-open stream.
			return apperrors.UnauthorizedError("invalid client bearer token")
		}
	}

	if s.registry.Count(tenant) >= s.config.MaxClientsPerTenant {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			fmt.Sprintf("max clients per tenant (%d) reached", s.config.MaxClientsPerTenant))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its own handshake error response.
		return nil
	}

	client := relay.NewClient(conn, s.clock)
	s.registry.Register(tenant, client)
	slog.Info("Viewer connected", "tenant", tenant, "client_id", client.ID.String())

	// Read pump: purely a disconnect detector.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.registry.Unregister(tenant, client)
	client.Close()
	slog.Info("Viewer disconnected", "tenant", tenant, "client_id", client.ID.String())

	return nil
}
