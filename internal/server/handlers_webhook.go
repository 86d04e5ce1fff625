package server

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nebegreg/Timeline-comfyui/internal/domain"
	apperrors "github.com/nebegreg/Timeline-comfyui/internal/errors"
	"github.com/nebegreg/Timeline-comfyui/internal/metrics"
)

// headerRelayToken carries the shared ingestion secret from the job runner.
const headerRelayToken = "X-Relay-Token"

// maxWebhookBodyBytes bounds a single event payload. Batch status events
// carry job summary lists but stay far below this.
const maxWebhookBodyBytes = 1 << 20

// handleWebhook ingests one job-status event and fans it out to the
// tenant's viewers. The acknowledgment does not wait for any individual
// delivery; a tenant with no viewers gets an ack and the event is dropped.
func (s *Server) handleWebhook(c echo.Context) error {
	if s.config.WebhookAuthEnforced() {
		supplied := c.Request().Header.Get(headerRelayToken)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.config.WebhookToken)) != 1 {
			return apperrors.UnauthorizedError("invalid relay webhook token")
		}
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		return apperrors.MalformedPayloadError("failed to read request body", err)
	}

	event, err := domain.ParseEvent(body)
	if err != nil {
		return apperrors.MalformedPayloadError("request body is not a valid event", err)
	}

	if err := event.Validate(); err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingTenant):
			return apperrors.ValidationError(err.Error())
		case errors.Is(err, domain.ErrMissingType):
			return apperrors.ValidationError(err.Error())
		default:
			return apperrors.ValidationError("invalid event")
		}
	}

	event.Normalize()

	if err := s.dispatcher.Dispatch(event); err != nil {
		return err
	}
	metrics.EventsIngestedTotal.WithLabelValues(event.Type).Inc()

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
