// Package match is the serialization point between inbound connection
// events and room mutation plus outbound fan-out. Every handler validates
// the event against the room's current phase, mutates the room under its
// lock, and emits the resulting notifications before returning.
package match

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/puzzleduel-go/internal/dependencies/clock"
	"github.com/mcoot/puzzleduel-go/internal/model"
	"github.com/mcoot/puzzleduel-go/internal/services/adjudicate"
	"github.com/mcoot/puzzleduel-go/internal/services/room"
)

// User-facing error messages carried on error events
const (
	msgRoomNotFound  = "Room not found"
	msgRoomFull      = "Room is full"
	msgNoOpponent    = "No opponent has joined yet"
	msgAlreadyInRoom = "Already in a room"
	msgCreateFailed  = "Could not create a room"
)

// errDropped marks events that degrade silently: updates on vanished rooms,
// events from connections matching neither seat, and phase-illegal requests
// the protocol deliberately ignores.
var errDropped = errors.New("event dropped")

// Emitter delivers an event to a single connection. Implementations must
// not block; delivery (handing the event to the connection's writer) happens
// before the calling handler returns.
type Emitter interface {
	Emit(conn model.ConnID, event model.ServerEvent)
}

// Controller routes inbound room events. All methods are safe for
// concurrent use; events on the same room are serialized by the store's
// per-room lock.
type Controller struct {
	store    *room.Store
	registry *room.Registry
	emitter  Emitter
	clock    clock.Clock
	logger   *slog.Logger
}

// NewController creates a match controller
func NewController(store *room.Store, registry *room.Registry, emitter Emitter, clk clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		store:    store,
		registry: registry,
		emitter:  emitter,
		clock:    clk,
		logger:   logger.With(slog.String("component", "match")),
	}
}

// CreateRoom creates a room with the connection seated as host and acks the
// new code to the creator only
func (c *Controller) CreateRoom(conn model.ConnID, displayName string) {
	if _, ok := c.registry.Lookup(conn); ok {
		c.emitError(conn, msgAlreadyInRoom)
		return
	}

	r, err := c.store.Create(conn, displayName)
	if err != nil {
		c.logger.Error("room creation failed", slog.String("error", err.Error()))
		c.emitError(conn, msgCreateFailed)
		return
	}
	_ = c.registry.Bind(conn, r.Code)

	c.logger.Info("room created",
		slog.String("code", string(r.Code)),
		slog.String("host", r.Host.DisplayName))

	c.emitter.Emit(conn, model.ServerEvent{
		Event: model.EventRoomCreated,
		Data:  model.RoomCreatedPayload{Code: r.Code},
	})
}

// JoinRoom seats the connection as guest. On success the joiner and the
// host each learn the other's name; on failure only the requester hears
// about it.
func (c *Controller) JoinRoom(conn model.ConnID, code model.RoomCode, displayName string) {
	if _, ok := c.registry.Lookup(conn); ok {
		c.emitError(conn, msgAlreadyInRoom)
		return
	}

	r, err := c.store.Join(code, conn, displayName)
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		c.emitError(conn, msgRoomNotFound)
		return
	case errors.Is(err, model.ErrRoomFull):
		c.emitError(conn, msgRoomFull)
		return
	case err != nil:
		c.logger.Error("join failed", slog.String("code", string(code)), slog.String("error", err.Error()))
		return
	}
	_ = c.registry.Bind(conn, code)

	c.logger.Info("guest joined",
		slog.String("code", string(code)),
		slog.String("guest", r.Guest.DisplayName))

	c.emitter.Emit(conn, model.ServerEvent{
		Event: model.EventRoomJoined,
		Data:  model.RoomJoinedPayload{Code: code},
	})
	c.emitter.Emit(conn, model.ServerEvent{
		Event: model.EventOpponentJoined,
		Data:  model.OpponentJoinedPayload{OpponentName: r.Host.DisplayName},
	})
	c.emitter.Emit(r.Host.ConnID, model.ServerEvent{
		Event: model.EventOpponentJoined,
		Data:  model.OpponentJoinedPayload{OpponentName: r.Guest.DisplayName},
	})
}

// StartGame moves a ready room into progress. Only the host may start; a
// non-host request is ignored without an error. Starting without a guest is
// rejected with an explicit error to the requester.
func (c *Controller) StartGame(conn model.ConnID, code model.RoomCode) {
	r, err := c.store.Update(code, func(r *model.Room) error {
		seat, ok := r.SeatOf(conn)
		if !ok || seat != model.SeatHost {
			return model.ErrNotHost
		}
		if r.Guest == nil {
			return model.ErrOpponentNotPresent
		}
		if r.Phase != model.PhaseReady {
			return errDropped
		}
		r.Phase = model.PhaseInProgress
		return nil
	})
	switch {
	case errors.Is(err, model.ErrOpponentNotPresent):
		c.emitError(conn, msgNoOpponent)
		return
	case err != nil:
		// Vanished room, non-host requester, or duplicate start: all quiet
		c.logger.Debug("start ignored", slog.String("code", string(code)), slog.String("reason", err.Error()))
		return
	}

	c.logger.Info("game started", slog.String("code", string(code)))

	started := model.ServerEvent{Event: model.EventGameStart}
	c.emitter.Emit(r.Host.ConnID, started)
	c.emitter.Emit(r.Guest.ConnID, started)
}

// UpdateScore records the sender's running score and relays it to the other
// seat only. Updates referencing a vanished room, an unrecognized sender, or
// a room not in progress are silently dropped.
func (c *Controller) UpdateScore(conn model.ConnID, code model.RoomCode, score int) {
	var other model.ConnID
	_, err := c.store.Update(code, func(r *model.Room) error {
		if r.Phase != model.PhaseInProgress {
			return errDropped
		}
		seat, ok := r.SeatOf(conn)
		if !ok {
			return errDropped
		}
		r.PlayerAt(seat).Score = score
		other = r.PlayerAt(seat.Other()).ConnID
		return nil
	})
	if err != nil {
		return
	}

	c.emitter.Emit(other, model.ServerEvent{
		Event: model.EventOpponentUpdate,
		Data:  model.OpponentUpdatePayload{Score: score},
	})
}

// FinishGame latches the sender's finished flag and records the final
// score, time, and name. The first finisher leaves the room in progress and
// the opponent is told to keep playing; the second finisher completes the
// room and both seats receive their personalized result. A duplicate finish
// from an already-finished player re-runs the same update.
func (c *Controller) FinishGame(conn model.ConnID, code model.RoomCode, displayName string, score int, elapsedSeconds float64) {
	var seat model.Seat
	r, err := c.store.Update(code, func(r *model.Room) error {
		if r.Phase != model.PhaseInProgress && r.Phase != model.PhaseCompleted {
			return errDropped
		}
		var ok bool
		seat, ok = r.SeatOf(conn)
		if !ok {
			return errDropped
		}

		p := r.PlayerAt(seat)
		p.DisplayName = room.NormalizeDisplayName(displayName)
		p.Score = score
		p.ElapsedSeconds = elapsedSeconds
		if !p.Finished {
			p.Finished = true
			p.FinishedAt = c.clock.Now()
		}

		if r.PlayerAt(seat.Other()).Finished && r.Phase != model.PhaseCompleted {
			r.Phase = model.PhaseCompleted
			r.CompletedAt = c.clock.Now()
		}
		return nil
	})
	if err != nil {
		return
	}

	me := r.PlayerAt(seat)
	opponent := r.PlayerAt(seat.Other())

	if !opponent.Finished {
		c.logger.Info("player finished, waiting on opponent",
			slog.String("code", string(code)),
			slog.String("seat", string(seat)))
		c.emitter.Emit(opponent.ConnID, model.ServerEvent{
			Event: model.EventOpponentFinished,
			Data: model.OpponentFinishedPayload{
				DisplayName:    me.DisplayName,
				Score:          me.Score,
				ElapsedSeconds: me.ElapsedSeconds,
				Waiting:        true,
			},
		})
		return
	}

	outcome := adjudicate.Decide(r.Host.Score, r.Host.ElapsedSeconds, r.Guest.Score, r.Guest.ElapsedSeconds)

	c.logger.Info("match adjudicated",
		slog.String("code", string(code)),
		slog.Bool("draw", outcome.Draw),
		slog.String("reason", outcome.Reason))

	c.emitter.Emit(r.Host.ConnID, model.ServerEvent{
		Event: model.EventGameResult,
		Data:  resultFor(&r, model.SeatHost, outcome),
	})
	c.emitter.Emit(r.Guest.ConnID, model.ServerEvent{
		Event: model.EventGameResult,
		Data:  resultFor(&r, model.SeatGuest, outcome),
	})
}

// Disconnect tears down or demotes the room the connection belongs to. A
// departing host deletes the room and notifies the guest; a departing guest
// reopens the room for a fresh opponent and notifies the host. Connections
// without a room are a no-op.
func (c *Controller) Disconnect(conn model.ConnID) {
	code, ok := c.registry.Lookup(conn)
	if !ok {
		return
	}
	c.registry.Unbind(conn)

	var (
		wasHost    bool
		notifyConn model.ConnID
		notify     bool
	)
	_, err := c.store.Update(code, func(r *model.Room) error {
		seat, ok := r.SeatOf(conn)
		if !ok {
			return errDropped
		}
		if seat == model.SeatHost {
			wasHost = true
			if r.Guest != nil {
				notifyConn = r.Guest.ConnID
				notify = true
			}
			return nil
		}

		// Guest left: reopen the room and reset the host's match progress
		// so a new opponent starts a clean match
		notifyConn = r.Host.ConnID
		notify = true
		r.Guest = nil
		r.Phase = model.PhaseAwaitingGuest
		r.CompletedAt = time.Time{}
		r.Host.Score = 0
		r.Host.ElapsedSeconds = 0
		r.Host.Finished = false
		r.Host.FinishedAt = time.Time{}
		return nil
	})
	if err != nil {
		return
	}

	if wasHost {
		c.store.Delete(code)
		c.logger.Info("host disconnected, room deleted", slog.String("code", string(code)))
		if notify {
			c.registry.Unbind(notifyConn)
			c.emitter.Emit(notifyConn, model.ServerEvent{Event: model.EventHostDisconnected})
		}
		return
	}

	c.logger.Info("guest disconnected, room reopened", slog.String("code", string(code)))
	if notify {
		c.emitter.Emit(notifyConn, model.ServerEvent{Event: model.EventOpponentLeft})
	}
}

// SweepCompleted evicts rooms that completed longer than ttl ago and
// releases their occupants' registry bindings, so a player who lingered on
// the results screen can create or join a fresh room without reconnecting.
// Returns the number of rooms evicted.
func (c *Controller) SweepCompleted(ttl time.Duration) int {
	evicted := c.store.Sweep(ttl)
	for _, r := range evicted {
		if r.Host != nil {
			c.registry.Unbind(r.Host.ConnID)
		}
		if r.Guest != nil {
			c.registry.Unbind(r.Guest.ConnID)
		}
		c.logger.Info("completed room swept", slog.String("code", string(r.Code)))
	}
	return len(evicted)
}

func (c *Controller) emitError(conn model.ConnID, message string) {
	c.emitter.Emit(conn, model.ServerEvent{
		Event: model.EventError,
		Data:  model.ErrorPayload{Message: message},
	})
}

// resultFor expresses the adjudicated outcome from one seat's point of view
func resultFor(r *model.Room, seat model.Seat, outcome adjudicate.Outcome) model.GameResultPayload {
	me := r.PlayerAt(seat)
	opponent := r.PlayerAt(seat.Other())
	return model.GameResultPayload{
		MyScore:       me.Score,
		MyTime:        me.ElapsedSeconds,
		OpponentScore: opponent.Score,
		OpponentTime:  opponent.ElapsedSeconds,
		OpponentName:  opponent.DisplayName,
		IsWinner:      outcome.WinnerIs(seat),
		IsDraw:        outcome.Draw,
		Reason:        outcome.Reason,
	}
}
