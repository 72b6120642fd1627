// Package ws carries the coordinator's wire protocol over one websocket per
// client. The hub owns the connection table and implements event fan-out;
// all game semantics live behind the Coordinator interface.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

// Coordinator handles decoded inbound events and connection teardown
type Coordinator interface {
	CreateRoom(conn model.ConnID, displayName string)
	JoinRoom(conn model.ConnID, code model.RoomCode, displayName string)
	StartGame(conn model.ConnID, code model.RoomCode)
	UpdateScore(conn model.ConnID, code model.RoomCode, score int)
	FinishGame(conn model.ConnID, code model.RoomCode, displayName string, score int, elapsedSeconds float64)
	Disconnect(conn model.ConnID)
}

// Hub manages all live websocket connections
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*client

	coordinator Coordinator
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHub creates a hub. SetCoordinator must be called before serving.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*client),
		logger:  logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Display names are the only identity; nothing here is worth
				// cross-origin protection
				return true
			},
		},
	}
}

// SetCoordinator wires the event handler. The hub and the coordinator
// reference each other (the coordinator emits through the hub), so the
// coordinator is attached after construction.
func (h *Hub) SetCoordinator(c Coordinator) {
	h.coordinator = c
}

// ServeWS upgrades an HTTP request to a websocket connection and runs its
// read/write pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		id:   model.ConnID(uuid.NewString()),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("connection opened",
		slog.String("conn_id", string(c.id)),
		slog.Int("total_clients", count))

	go c.writePump()
	go c.readPump()
}

// Emit delivers an event to a single connection. Delivery means handing the
// encoded frame to the connection's writer; a slow client with a full buffer
// loses the frame rather than stalling the room.
func (h *Hub) Emit(conn model.ConnID, event model.ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed",
			slog.String("event", string(event.Event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		// Recipient already disconnected; the coordinator will hear about it
		// through the read pump
		return
	}

	select {
	case <-c.done:
		// Connection is tearing down
	case c.send <- data:
	default:
		h.logger.Warn("event dropped, client buffer full",
			slog.String("conn_id", string(conn)),
			slog.String("event", string(event.Event)))
	}
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close tears down every live connection
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// drop unregisters a client and notifies the coordinator exactly once
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, registered := h.clients[c.id]
	delete(h.clients, c.id)
	count := len(h.clients)
	h.mu.Unlock()
	if !registered {
		return
	}

	c.close()
	h.logger.Info("connection closed",
		slog.String("conn_id", string(c.id)),
		slog.Int("total_clients", count))

	h.coordinator.Disconnect(c.id)
}

// dispatch decodes an inbound frame and routes it to the coordinator.
// Malformed frames and unknown events are logged and dropped; nothing a
// client sends can take the coordinator down.
func (h *Hub) dispatch(conn model.ConnID, raw []byte) {
	var envelope model.ClientEvent
	if err := json.Unmarshal(raw, &envelope); err != nil {
		h.logger.Warn("malformed frame dropped",
			slog.String("conn_id", string(conn)),
			slog.String("error", err.Error()))
		return
	}

	switch envelope.Event {
	case model.EventCreateRoom:
		var p model.CreateRoomPayload
		if !h.decode(conn, envelope, &p) {
			return
		}
		h.coordinator.CreateRoom(conn, p.DisplayName)

	case model.EventJoinRoom:
		var p model.JoinRoomPayload
		if !h.decode(conn, envelope, &p) {
			return
		}
		h.coordinator.JoinRoom(conn, model.RoomCode(p.Code), p.DisplayName)

	case model.EventStartGame:
		var p model.StartGamePayload
		if !h.decode(conn, envelope, &p) {
			return
		}
		h.coordinator.StartGame(conn, model.RoomCode(p.Code))

	case model.EventScoreUpdate:
		var p model.ScoreUpdatePayload
		if !h.decode(conn, envelope, &p) {
			return
		}
		h.coordinator.UpdateScore(conn, model.RoomCode(p.Code), p.Score)

	case model.EventGameFinished:
		var p model.GameFinishedPayload
		if !h.decode(conn, envelope, &p) {
			return
		}
		h.coordinator.FinishGame(conn, model.RoomCode(p.Code), p.DisplayName, p.Score, p.ElapsedSeconds)

	default:
		h.logger.Debug("unknown event dropped",
			slog.String("conn_id", string(conn)),
			slog.String("event", string(envelope.Event)))
	}
}

func (h *Hub) decode(conn model.ConnID, envelope model.ClientEvent, into any) bool {
	if err := json.Unmarshal(envelope.Data, into); err != nil {
		h.logger.Warn("malformed payload dropped",
			slog.String("conn_id", string(conn)),
			slog.String("event", string(envelope.Event)),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
