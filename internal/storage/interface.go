package storage

import (
	"context"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

// Storage defines the interface for leaderboard persistence. Room state is
// deliberately not persisted: a room lives and dies with its connections.
type Storage interface {
	// SaveLeaderboardEntry appends a finished-match record
	SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error

	// ListLeaderboard returns up to limit records in the given order
	ListLeaderboard(ctx context.Context, sort model.LeaderboardSort, limit int) ([]*model.LeaderboardEntry, error)
}
