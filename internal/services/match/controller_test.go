package match

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleduel-go/internal/dependencies/mocks"
	"github.com/mcoot/puzzleduel-go/internal/model"
	"github.com/mcoot/puzzleduel-go/internal/services/room"
	"github.com/mcoot/puzzleduel-go/internal/testutil"
)

// recordingEmitter captures emitted events per connection
type recordingEmitter struct {
	mu     sync.Mutex
	events map[model.ConnID][]model.ServerEvent
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{events: make(map[model.ConnID][]model.ServerEvent)}
}

func (e *recordingEmitter) Emit(conn model.ConnID, event model.ServerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events[conn] = append(e.events[conn], event)
}

func (e *recordingEmitter) For(conn model.ConnID) []model.ServerEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.ServerEvent(nil), e.events[conn]...)
}

func (e *recordingEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = make(map[model.ConnID][]model.ServerEvent)
}

type ControllerSuite struct {
	suite.Suite
	store      *room.Store
	registry   *room.Registry
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	emitter    *recordingEmitter
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

const (
	hostConn  = model.ConnID("conn-host")
	guestConn = model.ConnID("conn-guest")
	otherConn = model.ConnID("conn-other")
)

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.store = room.NewStore(s.clock, s.random)
	s.registry = room.NewRegistry()
	s.emitter = newRecordingEmitter()
	s.controller = NewController(s.store, s.registry, s.emitter, s.clock, testutil.NopLogger())
}

// createRoom creates a room with the given code and host seated
func (s *ControllerSuite) createRoom(code string) model.RoomCode {
	s.random.QueueString(code)
	s.controller.CreateRoom(hostConn, "Host")
	s.emitter.Reset()
	return model.RoomCode(code)
}

// readyRoom creates a room and seats a guest
func (s *ControllerSuite) readyRoom(code string) model.RoomCode {
	c := s.createRoom(code)
	s.controller.JoinRoom(guestConn, c, "Guest")
	s.emitter.Reset()
	return c
}

// runningRoom creates a room, seats a guest, and starts the match
func (s *ControllerSuite) runningRoom(code string) model.RoomCode {
	c := s.readyRoom(code)
	s.controller.StartGame(hostConn, c)
	s.emitter.Reset()
	return c
}

// CreateRoom

func (s *ControllerSuite) TestCreateRoomAcksCreatorWithCode() {
	s.random.QueueString("ABC123")
	s.controller.CreateRoom(hostConn, "Host")

	events := s.emitter.For(hostConn)
	s.Require().Len(events, 1)
	s.Equal(model.EventRoomCreated, events[0].Event)
	s.Equal(model.RoomCreatedPayload{Code: "ABC123"}, events[0].Data)

	r, err := s.store.Get("ABC123")
	s.Require().NoError(err)
	s.Equal(model.PhaseAwaitingGuest, r.Phase)
	s.Equal("Host", r.Host.DisplayName)
	s.Nil(r.Guest)
}

func (s *ControllerSuite) TestCreateRoomRetriesCollidingCodes() {
	s.createRoom("ABC123")

	s.random.QueueString("ABC123", "XYZ789")
	s.controller.CreateRoom(otherConn, "Other")

	events := s.emitter.For(otherConn)
	s.Require().Len(events, 1)
	s.Equal(model.RoomCreatedPayload{Code: "XYZ789"}, events[0].Data)
	s.Equal(2, s.store.Len())
}

func (s *ControllerSuite) TestCreateRoomDefaultsBlankDisplayName() {
	s.random.QueueString("ABC123")
	s.controller.CreateRoom(hostConn, "   ")

	r, err := s.store.Get("ABC123")
	s.Require().NoError(err)
	s.Equal("Anonymous", r.Host.DisplayName)
}

func (s *ControllerSuite) TestCreateRoomWhileAlreadyInRoomErrors() {
	c := s.createRoom("ABC123")
	s.controller.CreateRoom(hostConn, "Host")

	events := s.emitter.For(hostConn)
	s.Require().Len(events, 1)
	s.Equal(model.EventError, events[0].Event)

	bound, ok := s.registry.Lookup(hostConn)
	s.True(ok)
	s.Equal(c, bound)
}

// JoinRoom

func (s *ControllerSuite) TestJoinRoomNotifiesBothSeatsAsymmetrically() {
	c := s.createRoom("ABC123")
	s.controller.JoinRoom(guestConn, c, "Guest")

	joinerEvents := s.emitter.For(guestConn)
	s.Require().Len(joinerEvents, 2)
	s.Equal(model.EventRoomJoined, joinerEvents[0].Event)
	s.Equal(model.RoomJoinedPayload{Code: c}, joinerEvents[0].Data)
	s.Equal(model.EventOpponentJoined, joinerEvents[1].Event)
	s.Equal(model.OpponentJoinedPayload{OpponentName: "Host"}, joinerEvents[1].Data)

	hostEvents := s.emitter.For(hostConn)
	s.Require().Len(hostEvents, 1)
	s.Equal(model.EventOpponentJoined, hostEvents[0].Event)
	s.Equal(model.OpponentJoinedPayload{OpponentName: "Guest"}, hostEvents[0].Data)

	r, _ := s.store.Get(c)
	s.Equal(model.PhaseReady, r.Phase)
}

func (s *ControllerSuite) TestJoinUnknownCodeYieldsRoomNotFound() {
	s.controller.JoinRoom(guestConn, "NOSUCH", "Guest")

	events := s.emitter.For(guestConn)
	s.Require().Len(events, 1)
	s.Equal(model.EventError, events[0].Event)
	s.Equal(model.ErrorPayload{Message: "Room not found"}, events[0].Data)
}

func (s *ControllerSuite) TestJoinOccupiedRoomYieldsRoomFull() {
	c := s.readyRoom("ABC123")
	s.controller.JoinRoom(otherConn, c, "Third")

	events := s.emitter.For(otherConn)
	s.Require().Len(events, 1)
	s.Equal(model.ErrorPayload{Message: "Room is full"}, events[0].Data)

	// Seated players hear nothing
	s.Empty(s.emitter.For(hostConn))
	s.Empty(s.emitter.For(guestConn))
}

// StartGame

func (s *ControllerSuite) TestStartGameBroadcastsToBothSeats() {
	c := s.readyRoom("ABC123")
	s.controller.StartGame(hostConn, c)

	for _, conn := range []model.ConnID{hostConn, guestConn} {
		events := s.emitter.For(conn)
		s.Require().Len(events, 1)
		s.Equal(model.EventGameStart, events[0].Event)
	}

	r, _ := s.store.Get(c)
	s.Equal(model.PhaseInProgress, r.Phase)
}

func (s *ControllerSuite) TestStartGameWithoutGuestErrorsRequesterOnly() {
	c := s.createRoom("ABC123")
	s.controller.StartGame(hostConn, c)

	events := s.emitter.For(hostConn)
	s.Require().Len(events, 1)
	s.Equal(model.EventError, events[0].Event)
	s.Equal(model.ErrorPayload{Message: "No opponent has joined yet"}, events[0].Data)

	r, _ := s.store.Get(c)
	s.Equal(model.PhaseAwaitingGuest, r.Phase)
}

func (s *ControllerSuite) TestStartGameByGuestIsSilentlyIgnored() {
	c := s.readyRoom("ABC123")
	s.controller.StartGame(guestConn, c)

	s.Empty(s.emitter.For(hostConn))
	s.Empty(s.emitter.For(guestConn))

	r, _ := s.store.Get(c)
	s.Equal(model.PhaseReady, r.Phase)
}

func (s *ControllerSuite) TestDuplicateStartIsSilentlyIgnored() {
	c := s.runningRoom("ABC123")
	s.controller.StartGame(hostConn, c)

	s.Empty(s.emitter.For(hostConn))
	s.Empty(s.emitter.For(guestConn))
}

// UpdateScore

func (s *ControllerSuite) TestScoreUpdateRelaysToOtherSeatOnly() {
	c := s.runningRoom("ABC123")
	s.controller.UpdateScore(hostConn, c, 7)

	guestEvents := s.emitter.For(guestConn)
	s.Require().Len(guestEvents, 1)
	s.Equal(model.EventOpponentUpdate, guestEvents[0].Event)
	s.Equal(model.OpponentUpdatePayload{Score: 7}, guestEvents[0].Data)

	// Never echoed back to the sender
	s.Empty(s.emitter.For(hostConn))

	r, _ := s.store.Get(c)
	s.Equal(7, r.Host.Score)
}

func (s *ControllerSuite) TestScoreUpdateOnVanishedRoomIsDropped() {
	s.controller.UpdateScore(hostConn, "NOSUCH", 7)
	s.Empty(s.emitter.For(hostConn))
}

func (s *ControllerSuite) TestScoreUpdateBeforeStartIsDropped() {
	c := s.readyRoom("ABC123")
	s.controller.UpdateScore(hostConn, c, 7)

	s.Empty(s.emitter.For(guestConn))
	r, _ := s.store.Get(c)
	s.Equal(0, r.Host.Score)
}

func (s *ControllerSuite) TestScoreUpdateFromUnknownConnectionIsDropped() {
	c := s.runningRoom("ABC123")
	s.controller.UpdateScore(otherConn, c, 99)

	s.Empty(s.emitter.For(hostConn))
	s.Empty(s.emitter.For(guestConn))
}

// FinishGame

func (s *ControllerSuite) TestFirstFinisherNotifiesOpponentWithoutResult() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)

	guestEvents := s.emitter.For(guestConn)
	s.Require().Len(guestEvents, 1)
	s.Equal(model.EventOpponentFinished, guestEvents[0].Event)
	s.Equal(model.OpponentFinishedPayload{
		DisplayName:    "Host",
		Score:          10,
		ElapsedSeconds: 120,
		Waiting:        true,
	}, guestEvents[0].Data)

	s.Empty(s.emitter.For(hostConn))

	r, _ := s.store.Get(c)
	s.Equal(model.PhaseInProgress, r.Phase)
	s.True(r.Host.Finished)
	s.Equal(s.clock.Now(), r.Host.FinishedAt)
}

func (s *ControllerSuite) TestBothFinishedDeliversMirroredResults() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)
	s.emitter.Reset()
	s.controller.FinishGame(guestConn, c, "Guest", 8, 90)

	hostEvents := s.emitter.For(hostConn)
	s.Require().Len(hostEvents, 1)
	s.Equal(model.EventGameResult, hostEvents[0].Event)
	s.Equal(model.GameResultPayload{
		MyScore:       10,
		MyTime:        120,
		OpponentScore: 8,
		OpponentTime:  90,
		OpponentName:  "Guest",
		IsWinner:      true,
		Reason:        "more points",
	}, hostEvents[0].Data)

	guestEvents := s.emitter.For(guestConn)
	s.Require().Len(guestEvents, 1)
	s.Equal(model.GameResultPayload{
		MyScore:       8,
		MyTime:        90,
		OpponentScore: 10,
		OpponentTime:  120,
		OpponentName:  "Host",
		IsWinner:      false,
		Reason:        "more points",
	}, guestEvents[0].Data)

	r, _ := s.store.Get(c)
	s.Equal(model.PhaseCompleted, r.Phase)
}

func (s *ControllerSuite) TestEqualScoresAdjudicatedByTime() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)
	s.emitter.Reset()
	s.controller.FinishGame(guestConn, c, "Guest", 10, 90)

	hostResult := s.emitter.For(hostConn)[0].Data.(model.GameResultPayload)
	guestResult := s.emitter.For(guestConn)[0].Data.(model.GameResultPayload)
	s.False(hostResult.IsWinner)
	s.True(guestResult.IsWinner)
	s.Equal("equal points, faster time", hostResult.Reason)
}

func (s *ControllerSuite) TestFullTieIsDraw() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 100)
	s.emitter.Reset()
	s.controller.FinishGame(guestConn, c, "Guest", 10, 100)

	hostResult := s.emitter.For(hostConn)[0].Data.(model.GameResultPayload)
	guestResult := s.emitter.For(guestConn)[0].Data.(model.GameResultPayload)
	s.True(hostResult.IsDraw)
	s.True(guestResult.IsDraw)
	s.False(hostResult.IsWinner)
	s.False(guestResult.IsWinner)
	s.Equal("full tie", hostResult.Reason)
}

func (s *ControllerSuite) TestFinishLatchSurvivesRetransmission() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)
	finishedAt := s.clock.Now()

	s.clock.Advance(5 * time.Second)
	s.emitter.Reset()
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)

	// Retransmission re-runs the update and re-notifies the waiting side
	guestEvents := s.emitter.For(guestConn)
	s.Require().Len(guestEvents, 1)
	s.Equal(model.EventOpponentFinished, guestEvents[0].Event)

	r, _ := s.store.Get(c)
	s.True(r.Host.Finished)
	s.Equal(finishedAt, r.Host.FinishedAt, "latch timestamp must not move")
}

func (s *ControllerSuite) TestFinishOnVanishedRoomIsDropped() {
	s.controller.FinishGame(hostConn, "NOSUCH", "Host", 10, 120)
	s.Empty(s.emitter.For(hostConn))
}

// Disconnect

func (s *ControllerSuite) TestHostDisconnectDeletesRoomAndNotifiesGuest() {
	c := s.runningRoom("ABC123")
	s.controller.Disconnect(hostConn)

	guestEvents := s.emitter.For(guestConn)
	s.Require().Len(guestEvents, 1)
	s.Equal(model.EventHostDisconnected, guestEvents[0].Event)

	_, err := s.store.Get(c)
	s.ErrorIs(err, model.ErrRoomNotFound)

	// Subsequent events referencing the code degrade per the protocol
	s.emitter.Reset()
	s.controller.UpdateScore(guestConn, c, 5)
	s.Empty(s.emitter.For(hostConn))
	s.controller.JoinRoom(otherConn, c, "Other")
	events := s.emitter.For(otherConn)
	s.Require().Len(events, 1)
	s.Equal(model.ErrorPayload{Message: "Room not found"}, events[0].Data)
}

func (s *ControllerSuite) TestHostDisconnectAloneDeletesQuietly() {
	c := s.createRoom("ABC123")
	s.controller.Disconnect(hostConn)

	s.Empty(s.emitter.For(hostConn))
	_, err := s.store.Get(c)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestGuestDisconnectReopensRoom() {
	c := s.runningRoom("ABC123")
	s.controller.UpdateScore(hostConn, c, 5)
	s.emitter.Reset()

	s.controller.Disconnect(guestConn)

	hostEvents := s.emitter.For(hostConn)
	s.Require().Len(hostEvents, 1)
	s.Equal(model.EventOpponentLeft, hostEvents[0].Event)

	r, err := s.store.Get(c)
	s.Require().NoError(err)
	s.Equal(model.PhaseAwaitingGuest, r.Phase)
	s.Nil(r.Guest)
	s.Equal(0, r.Host.Score, "host progress resets for the next match")

	// The seat is open again
	s.emitter.Reset()
	s.controller.JoinRoom(otherConn, c, "Rematch")
	joinEvents := s.emitter.For(otherConn)
	s.Require().Len(joinEvents, 2)
	s.Equal(model.EventRoomJoined, joinEvents[0].Event)
}

func (s *ControllerSuite) TestDisconnectWithoutRoomIsNoOp() {
	s.controller.Disconnect(otherConn)
	s.Empty(s.emitter.For(otherConn))
}

func (s *ControllerSuite) TestGuestDisconnectAfterCompletionKeepsRoomOpen() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)
	s.controller.FinishGame(guestConn, c, "Guest", 8, 90)
	s.emitter.Reset()

	s.controller.Disconnect(guestConn)

	hostEvents := s.emitter.For(hostConn)
	s.Require().Len(hostEvents, 1)
	s.Equal(model.EventOpponentLeft, hostEvents[0].Event)

	r, err := s.store.Get(c)
	s.Require().NoError(err)
	s.Equal(model.PhaseAwaitingGuest, r.Phase)
}

// SweepCompleted

func (s *ControllerSuite) TestSweepReleasesOccupantsForNewRooms() {
	c := s.runningRoom("ABC123")
	s.controller.FinishGame(hostConn, c, "Host", 10, 120)
	s.controller.FinishGame(guestConn, c, "Guest", 8, 90)
	s.emitter.Reset()

	s.clock.Advance(16 * time.Minute)
	s.Equal(1, s.controller.SweepCompleted(15*time.Minute))

	_, err := s.store.Get(c)
	s.ErrorIs(err, model.ErrRoomNotFound)
	_, bound := s.registry.Lookup(hostConn)
	s.False(bound)
	_, bound = s.registry.Lookup(guestConn)
	s.False(bound)

	// A swept room's host starts a fresh match without reconnecting
	s.random.QueueString("XYZ789")
	s.controller.CreateRoom(hostConn, "Host")

	events := s.emitter.For(hostConn)
	s.Require().Len(events, 1)
	s.Equal(model.EventRoomCreated, events[0].Event)
	s.Equal(model.RoomCreatedPayload{Code: "XYZ789"}, events[0].Data)
	_, err = s.store.Get("XYZ789")
	s.NoError(err)
}

func (s *ControllerSuite) TestSweepLeavesUnfinishedRoomsBound() {
	c := s.runningRoom("ABC123")

	s.clock.Advance(16 * time.Minute)
	s.Equal(0, s.controller.SweepCompleted(15*time.Minute))

	got, ok := s.registry.Lookup(hostConn)
	s.True(ok)
	s.Equal(c, got)
	_, err := s.store.Get(c)
	s.NoError(err)
}
