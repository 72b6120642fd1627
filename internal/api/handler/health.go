package handler

import (
	"net/http"

	"github.com/mcoot/puzzleduel-go/internal/api/response"
	"github.com/mcoot/puzzleduel-go/internal/services/room"
	"github.com/mcoot/puzzleduel-go/internal/ws"
)

// HealthHandler reports liveness and basic occupancy counts
type HealthHandler struct {
	hub   *ws.Hub
	store *room.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(hub *ws.Hub, store *room.Store) *HealthHandler {
	return &HealthHandler{hub: hub, store: store}
}

// Get handles GET /api/v1/healthz
func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:      "ok",
		Connections: h.hub.ClientCount(),
		Rooms:       h.store.Len(),
	})
}
