package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

const (
	// writeWait is the deadline for a single outbound frame
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before it is
	// presumed dead
	pongWait = 60 * time.Second
	// pingPeriod keeps under pongWait with margin for network latency
	pingPeriod = 54 * time.Second

	sendBufferSize = 64
	maxMessageSize = 4096
)

// client is one live websocket connection
type client struct {
	id   model.ConnID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	hub  *Hub

	closeOnce sync.Once
}

// close signals teardown exactly once and closes the socket. The send
// channel is never closed: a concurrent Emit racing teardown must not panic,
// so the write pump exits via done instead.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	_ = c.conn.Close()
}

// readPump reads inbound frames and dispatches them in arrival order, which
// is what keeps a single connection's event stream from reordering. It owns
// connection teardown: when the read side ends, for any reason, the
// connection is gone.
func (c *client) readPump() {
	defer c.hub.drop(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error",
					slog.String("conn_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}
		if messageType == websocket.TextMessage {
			c.hub.dispatch(c.id, message)
		}
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with periodic pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
