package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: complete match flow from room creation through completion, driven
// through the coordinator and observed via the room store. Events emitted to
// connections that never registered with the hub fall on the floor, which is
// fine here; the store is the source of truth.
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	s.app.MockRandom.QueueString("ROOM01")

	host := model.ConnID("conn-host")
	guest := model.ConnID("conn-guest")

	s.app.MatchController.CreateRoom(host, "Alice")

	r, err := s.app.RoomStore.Get("ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseAwaitingGuest, r.Phase)

	s.app.MatchController.JoinRoom(guest, "ROOM01", "Bob")
	r, err = s.app.RoomStore.Get("ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseReady, r.Phase)
	s.Require().NotNil(r.Guest)
	s.Equal("Bob", r.Guest.DisplayName)

	s.app.MatchController.StartGame(host, "ROOM01")
	r, err = s.app.RoomStore.Get("ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseInProgress, r.Phase)

	s.app.MatchController.UpdateScore(host, "ROOM01", 4)
	r, err = s.app.RoomStore.Get("ROOM01")
	s.Require().NoError(err)
	s.Equal(4, r.Host.Score)

	s.app.MatchController.FinishGame(host, "ROOM01", "Alice", 10, 120)
	r, err = s.app.RoomStore.Get("ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseInProgress, r.Phase)
	s.True(r.Host.Finished)

	s.app.MatchController.FinishGame(guest, "ROOM01", "Bob", 8, 90)
	r, err = s.app.RoomStore.Get("ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseCompleted, r.Phase)
	s.Equal(s.app.MockClock.Now(), r.CompletedAt)
}

func (s *IntegrationSuite) TestCompletedRoomsAreSwept() {
	s.app.MockRandom.QueueString("ROOM01")

	host := model.ConnID("conn-host")
	guest := model.ConnID("conn-guest")

	s.app.MatchController.CreateRoom(host, "Alice")
	s.app.MatchController.JoinRoom(guest, "ROOM01", "Bob")
	s.app.MatchController.StartGame(host, "ROOM01")
	s.app.MatchController.FinishGame(host, "ROOM01", "Alice", 10, 120)
	s.app.MatchController.FinishGame(guest, "ROOM01", "Bob", 8, 90)

	swept := s.app.MatchController.SweepCompleted(15 * time.Minute)
	s.Equal(0, swept)

	s.app.MockClock.Advance(16 * time.Minute)
	swept = s.app.MatchController.SweepCompleted(15 * time.Minute)
	s.Equal(1, swept)
	s.Equal(0, s.app.RoomStore.Len())

	// Both occupants are released with the room and are free to start over
	_, bound := s.app.Registry.Lookup(host)
	s.False(bound)
	_, bound = s.app.Registry.Lookup(guest)
	s.False(bound)

	s.app.MockRandom.QueueString("ROOM02")
	s.app.MatchController.CreateRoom(host, "Alice")
	r, err := s.app.RoomStore.Get("ROOM02")
	s.Require().NoError(err)
	s.Equal(model.PhaseAwaitingGuest, r.Phase)
}

func (s *IntegrationSuite) TestLeaderboardRoundTrip() {
	s.app.MockRandom.QueueString("entry-one", "entry-two")

	_, err := s.app.LeaderboardService.Record(s.ctx, "Alice", 10, 120)
	s.Require().NoError(err)
	s.app.MockClock.Advance(time.Minute)
	_, err = s.app.LeaderboardService.Record(s.ctx, "Bob", 8, 90)
	s.Require().NoError(err)

	entries, err := s.app.LeaderboardService.Top(s.ctx, model.SortByScore, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Alice", entries[0].DisplayName)
	s.Equal("Bob", entries[1].DisplayName)
}
