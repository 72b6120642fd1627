// Package leaderboard records finished matches and serves ranked listings.
// The match coordinator never writes here; records arrive through the HTTP
// boundary once a client decides to submit its result.
package leaderboard

import (
	"context"
	"log/slog"

	"github.com/mcoot/puzzleduel-go/internal/dependencies/clock"
	"github.com/mcoot/puzzleduel-go/internal/dependencies/random"
	"github.com/mcoot/puzzleduel-go/internal/model"
	"github.com/mcoot/puzzleduel-go/internal/storage"
)

const (
	// DefaultLimit is applied when a listing does not specify one
	DefaultLimit = 20
	// MaxLimit caps a single listing
	MaxLimit = 100

	idLength   = 16
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service manages leaderboard records
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a leaderboard service
func New(storage storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "leaderboard")),
	}
}

// Record appends a finished-match record and returns it with its assigned ID
func (s *Service) Record(ctx context.Context, displayName string, score int, elapsedSeconds float64) (*model.LeaderboardEntry, error) {
	entry := &model.LeaderboardEntry{
		ID:             s.random.String(idLength, idAlphabet),
		DisplayName:    displayName,
		Score:          score,
		ElapsedSeconds: elapsedSeconds,
		RecordedAt:     s.clock.Now(),
	}

	if err := s.storage.SaveLeaderboardEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("leaderboard entry recorded",
		slog.String("id", entry.ID),
		slog.Int("score", entry.Score))

	return entry, nil
}

// Top lists the highest-ranked records for the given sort. Zero or negative
// limits fall back to DefaultLimit; oversized limits are clamped.
func (s *Service) Top(ctx context.Context, by model.LeaderboardSort, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.storage.ListLeaderboard(ctx, by, limit)
}
