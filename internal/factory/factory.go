// Package factory wires the application graph.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/puzzleduel-go/internal/dependencies/clock"
	"github.com/mcoot/puzzleduel-go/internal/dependencies/random"
	"github.com/mcoot/puzzleduel-go/internal/services/leaderboard"
	"github.com/mcoot/puzzleduel-go/internal/services/match"
	"github.com/mcoot/puzzleduel-go/internal/services/room"
	"github.com/mcoot/puzzleduel-go/internal/storage"
	"github.com/mcoot/puzzleduel-go/internal/storage/memory"
	redisstorage "github.com/mcoot/puzzleduel-go/internal/storage/redis"
	"github.com/mcoot/puzzleduel-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RoomStore          *room.Store
	Registry           *room.Registry
	Hub                *ws.Hub
	MatchController    *match.Controller
	LeaderboardService *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the leaderboard backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	roomStore := room.NewStore(clk, rnd)
	registry := room.NewRegistry()

	// The hub and the match controller reference each other; the hub is
	// built first and the controller attached after
	hub := ws.NewHub(logger)
	matchController := match.NewController(roomStore, registry, hub, clk, logger)
	hub.SetCoordinator(matchController)

	leaderboardService := leaderboard.New(store, clk, rnd, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		RoomStore:          roomStore,
		Registry:           registry,
		Hub:                hub,
		MatchController:    matchController,
		LeaderboardService: leaderboardService,
	}
}
