package relay

import (
	"log/slog"

	"github.com/nebegreg/Timeline-comfyui/internal/domain"
	apperrors "github.com/nebegreg/Timeline-comfyui/internal/errors"
	"github.com/nebegreg/Timeline-comfyui/internal/metrics"
)

// Dispatcher fans one inbound event out to every viewer of its tenant.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch broadcasts the event to all connections registered for its
// tenant. Delivery is fire-and-forget per connection: one failed send never
// stops the remaining sends. Failed connections are pruned after the loop.
// Dispatching to a tenant with no viewers succeeds and delivers nothing.
func (d *Dispatcher) Dispatch(event *domain.Event) error {
	if event.Tenant == "" {
		return apperrors.ValidationError("event is missing required field: tenant")
	}

	// Marshal once so every viewer receives byte-identical payloads.
	payload, err := event.Marshal()
	if err != nil {
		return apperrors.InternalError("failed to serialize event", err)
	}

	clients := d.registry.Snapshot(event.Tenant)
	if len(clients) == 0 {
		slog.Debug("No viewers connected, event dropped", "tenant", event.Tenant, "type", event.Type)
		return nil
	}

	var failed []*Client
	for _, client := range clients {
		if err := client.Send(payload); err != nil {
			metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
			failed = append(failed, client)
			continue
		}
		metrics.DeliveriesTotal.WithLabelValues("ok").Inc()
	}

	for _, client := range failed {
		d.registry.Unregister(event.Tenant, client)
		client.Close()
		metrics.RelayClientsPruned.Inc()
		slog.Warn("Pruned viewer after failed send", "tenant", event.Tenant, "client_id", client.ID.String())
	}

	return nil
}
