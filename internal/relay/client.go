package relay

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

// Client is one registered viewer connection. The ID exists only for set
// membership and log correlation; viewers are otherwise anonymous.
type Client struct {
	ID     uuid.UUID
	writer *clientWriter
}

// NewClient wraps an upgraded WebSocket connection with its writer goroutine.
func NewClient(connection *websocket.Conn, clock clockwork.Clock) *Client {
	return &Client{
		ID:     uuid.New(),
		writer: newClientWriter(connection, clock),
	}
}

// Send enqueues one broadcast payload for delivery. Non-blocking: a slow or
// dead peer yields an error instead of stalling the fan-out.
func (c *Client) Send(data []byte) error {
	return c.writer.send(data)
}

// Close tears the connection down immediately.
func (c *Client) Close() {
	c.writer.stop()
}

// CloseGraceful sends a close frame with reason before tearing down.
func (c *Client) CloseGraceful(reason string) {
	c.writer.stopGraceful(reason)
}
