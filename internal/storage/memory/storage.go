package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/puzzleduel-go/internal/model"
	"github.com/mcoot/puzzleduel-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	entries []*model.LeaderboardEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

func (s *Storage) ListLeaderboard(ctx context.Context, by model.LeaderboardSort, limit int) ([]*model.LeaderboardEntry, error) {
	s.mu.RLock()
	result := make([]*model.LeaderboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		copied := *e
		result = append(result, &copied)
	}
	s.mu.RUnlock()

	switch by {
	case model.SortByScore:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Score > result[j].Score
		})
	case model.SortByTime:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].ElapsedSeconds < result[j].ElapsedSeconds
		})
	case model.SortByDate:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].RecordedAt.After(result[j].RecordedAt)
		})
	default:
		return nil, model.ErrInvalidSort
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
