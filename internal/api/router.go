package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/puzzleduel-go/internal/api/handler"
	apimiddleware "github.com/mcoot/puzzleduel-go/internal/api/middleware"
	"github.com/mcoot/puzzleduel-go/internal/middleware"
	"github.com/mcoot/puzzleduel-go/internal/services/leaderboard"
	"github.com/mcoot/puzzleduel-go/internal/services/room"
	"github.com/mcoot/puzzleduel-go/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Hub                *ws.Hub
	RoomStore          *room.Store
	LeaderboardService *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	healthHandler := handler.NewHealthHandler(cfg.Hub, cfg.RoomStore)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/healthz", healthHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardHandler.Submit).Methods(http.MethodPost)

	// Game traffic rides a single websocket per client. The logging wrapper
	// implements http.Hijacker so the upgrade passes through it.
	game := r.PathPrefix("/ws").Subrouter()
	game.Use(recoveryMiddleware)
	game.Use(loggingMiddleware)
	game.HandleFunc("", cfg.Hub.ServeWS).Methods(http.MethodGet)

	return r
}
