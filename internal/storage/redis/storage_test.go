package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) seed() {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []*model.LeaderboardEntry{
		{ID: "e1", DisplayName: "Alice", Score: 12, ElapsedSeconds: 95, RecordedAt: base},
		{ID: "e2", DisplayName: "Bob", Score: 8, ElapsedSeconds: 60, RecordedAt: base.Add(time.Hour)},
		{ID: "e3", DisplayName: "Cleo", Score: 15, ElapsedSeconds: 120, RecordedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		s.Require().NoError(s.storage.SaveLeaderboardEntry(s.ctx, e))
	}
}

func (s *StorageSuite) TestListByScore() {
	s.seed()

	entries, err := s.storage.ListLeaderboard(s.ctx, model.SortByScore, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("Cleo", entries[0].DisplayName)
	s.Equal("Alice", entries[1].DisplayName)
	s.Equal("Bob", entries[2].DisplayName)
}

func (s *StorageSuite) TestListByTime() {
	s.seed()

	entries, err := s.storage.ListLeaderboard(s.ctx, model.SortByTime, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("Bob", entries[0].DisplayName)
	s.Equal("Alice", entries[1].DisplayName)
	s.Equal("Cleo", entries[2].DisplayName)
}

func (s *StorageSuite) TestListByDate() {
	s.seed()

	entries, err := s.storage.ListLeaderboard(s.ctx, model.SortByDate, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("Cleo", entries[0].DisplayName)
	s.Equal("Bob", entries[1].DisplayName)
	s.Equal("Alice", entries[2].DisplayName)
}

func (s *StorageSuite) TestListHonorsLimit() {
	s.seed()

	entries, err := s.storage.ListLeaderboard(s.ctx, model.SortByScore, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Cleo", entries[0].DisplayName)
}

func (s *StorageSuite) TestListInvalidSort() {
	_, err := s.storage.ListLeaderboard(s.ctx, model.LeaderboardSort("bogus"), 0)
	s.ErrorIs(err, model.ErrInvalidSort)
}

func (s *StorageSuite) TestListEmpty() {
	entries, err := s.storage.ListLeaderboard(s.ctx, model.SortByScore, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StorageSuite) TestEntryRoundTrip() {
	recorded := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := &model.LeaderboardEntry{
		ID:             "e1",
		DisplayName:    "Alice",
		Score:          12,
		ElapsedSeconds: 95.5,
		RecordedAt:     recorded,
	}
	s.Require().NoError(s.storage.SaveLeaderboardEntry(s.ctx, entry))

	entries, err := s.storage.ListLeaderboard(s.ctx, model.SortByScore, 1)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(entry.ID, entries[0].ID)
	s.Equal(entry.Score, entries[0].Score)
	s.Equal(entry.ElapsedSeconds, entries[0].ElapsedSeconds)
	s.True(entry.RecordedAt.Equal(entries[0].RecordedAt))
}
