package relay

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnPair(t *testing.T) (server *ws.Conn, client *ws.Conn) {
	t.Helper()
	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *ws.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(func() { srv.Close() })

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-ready
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func TestClientWriter_SendDelivers(t *testing.T) {
	serverConn, clientConn := newTestConnPair(t)

	cw := newClientWriter(serverConn, clockwork.NewRealClock())
	t.Cleanup(func() { cw.stop() })

	require.NoError(t, cw.send([]byte(`{"type":"status","tenant":"acme"}`)))

	clientConn.SetReadDeadline(time.Now().Add(time.Second))
	msgType, msg, err := clientConn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, ws.TextMessage, msgType)
	assert.JSONEq(t, `{"type":"status","tenant":"acme"}`, string(msg))
}

func TestClientWriter_SendAfterStopFails(t *testing.T) {
	serverConn, _ := newTestConnPair(t)

	cw := newClientWriter(serverConn, clockwork.NewRealClock())
	cw.stop()

	err := cw.send([]byte("late"))
	assert.ErrorIs(t, err, errWriterClosed)
}

func TestClientWriter_StopIdempotent(t *testing.T) {
	serverConn, _ := newTestConnPair(t)

	cw := newClientWriter(serverConn, clockwork.NewRealClock())
	cw.stop()
	cw.stop()
}

func TestClientWriter_GracefulCloseFrame(t *testing.T) {
	serverConn, clientConn := newTestConnPair(t)

	cw := newClientWriter(serverConn, clockwork.NewRealClock())
	cw.stopGraceful("server shutting down")

	clientConn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := clientConn.ReadMessage()
	require.Error(t, err)

	var closeErr *ws.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, ws.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "server shutting down", closeErr.Text)
}

func TestClientWriter_WriteFailureExitsAndClosesTransport(t *testing.T) {
	serverConn, clientConn := newTestConnPair(t)

	cw := newClientWriter(serverConn, clockwork.NewRealClock())
	t.Cleanup(func() { cw.stop() })

	// Tear down the peer's end so the next write fails.
	clientConn.Close()
	serverConn.Close()

	require.NoError(t, cw.send([]byte("doomed")))

	// The writer goroutine must observe the failure and exit.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if err := cw.send([]byte("after failure")); err != nil {
			assert.ErrorIs(t, err, errWriterClosed)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("writer did not exit after a failed write")
}

func TestClientWriter_PingOnFakeClock(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	serverConn, clientConn := newTestConnPair(t)

	pings := make(chan struct{}, 1)
	clientConn.SetPingHandler(func(string) error {
		select {
		case pings <- struct{}{}:
		default:
		}
		return nil
	})
	go func() {
		for {
			if _, _, err := clientConn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	cw := newClientWriter(serverConn, fakeClock)
	t.Cleanup(func() { cw.stop() })

	// Wait until the writer goroutine has created its ticker before
	// advancing, otherwise the advance happens with no clock watchers.
	fakeClock.BlockUntil(1)
	fakeClock.Advance(pingInterval)

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping observed after advancing past the ping interval")
	}
}
