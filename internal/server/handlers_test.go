package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/nebegreg/Timeline-comfyui/internal/config"
	"github.com/nebegreg/Timeline-comfyui/internal/relay"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		Port:                "0",
		LogLevel:            "error",
		LogFormat:           "text",
		MaxClientsPerTenant: 100,
		CORSAllowedOrigins:  []string{"*"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}

	registry := relay.NewRegistry()
	dispatcher := relay.NewDispatcher(registry)
	srv := NewServer(cfg, registry, dispatcher, clockwork.NewRealClock())
	t.Cleanup(func() { registry.CloseAll("test teardown") })

	return srv
}

// startTestServer exposes the full route table over a real listener so
// stream tests can dial actual WebSocket connections.
func startTestServer(t *testing.T, cfg *config.Config) (*Server, *httptest.Server) {
	t.Helper()

	srv := newTestServer(t, cfg)
	ts := httptest.NewServer(srv.echo)
	t.Cleanup(func() { ts.Close() })

	return srv, ts
}

func dialStream(t *testing.T, ts *httptest.Server, tenant string, header map[string][]string) *ws.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream?tenant=" + tenant
	conn, _, err := ws.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}
