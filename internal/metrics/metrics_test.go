package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistration(t *testing.T) {
	// Verify all metrics are registered without conflicts
	metrics := []prometheus.Collector{
		RelayActiveTenants,
		RelayConnectedClients,
		RelayClientsPruned,
		EventsIngestedTotal,
		DeliveriesTotal,
		WebSocketMessageSendDuration,
		WebSocketPingFailures,
	}

	for _, metric := range metrics {
		assert.NotNil(t, metric)
	}
}

func TestGaugeRoundTrip(t *testing.T) {
	RelayActiveTenants.Set(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(RelayActiveTenants))

	RelayConnectedClients.Set(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(RelayConnectedClients))
}

func TestCounterVecLabels(t *testing.T) {
	EventsIngestedTotal.Reset()
	EventsIngestedTotal.WithLabelValues("progress").Inc()
	EventsIngestedTotal.WithLabelValues("progress").Inc()
	EventsIngestedTotal.WithLabelValues("status").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(EventsIngestedTotal.WithLabelValues("progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(EventsIngestedTotal.WithLabelValues("status")))
}
