// Package room owns the set of active rooms and the connection-to-room
// index. The store serializes all mutations on a single room relative to
// each other while keeping different rooms free of contention.
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/mcoot/puzzleduel-go/internal/dependencies/clock"
	"github.com/mcoot/puzzleduel-go/internal/dependencies/random"
	"github.com/mcoot/puzzleduel-go/internal/model"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds collision retries during code generation.
	// Hitting it means the 36^6 code space is effectively exhausted.
	maxCodeAttempts = 100

	defaultDisplayName = "Anonymous"
)

// entry pairs a room with its own lock. The store's map lock guards only
// membership; room content is guarded by the entry lock.
type entry struct {
	mu   sync.Mutex
	room *model.Room
}

// Store is the thread-safe owner of all active rooms, keyed by room code
type Store struct {
	mu    sync.RWMutex
	rooms map[model.RoomCode]*entry

	clock  clock.Clock
	random random.Random
}

// NewStore creates an empty room store
func NewStore(clk clock.Clock, rnd random.Random) *Store {
	return &Store{
		rooms:  make(map[model.RoomCode]*entry),
		clock:  clk,
		random: rnd,
	}
}

// NormalizeDisplayName trims a user-supplied name and falls back to a
// default; no further validation is applied
func NormalizeDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultDisplayName
	}
	return name
}

// Create inserts a new room in the awaiting-guest phase with the given
// connection seated as host, returning a snapshot of the room. Fails only
// when a unique code cannot be generated.
func (s *Store) Create(hostConn model.ConnID, displayName string) (model.Room, error) {
	now := s.clock.Now()
	r := &model.Room{
		Phase: model.PhaseAwaitingGuest,
		Host: &model.Player{
			ConnID:      hostConn,
			DisplayName: NormalizeDisplayName(displayName),
		},
		CreatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := model.RoomCode(s.random.String(CodeLength, CodeAlphabet))
		if _, taken := s.rooms[code]; taken {
			continue
		}
		r.Code = code
		s.rooms[code] = &entry{room: r}
		return r.Clone(), nil
	}

	return model.Room{}, model.ErrCodeSpaceExhausted
}

// Join atomically seats a connection as guest and advances the room to the
// ready phase. Concurrent joins on the same code are serialized: exactly one
// succeeds, the rest get ErrRoomFull.
func (s *Store) Join(code model.RoomCode, conn model.ConnID, displayName string) (model.Room, error) {
	return s.Update(code, func(r *model.Room) error {
		if r.Guest != nil {
			return model.ErrRoomFull
		}
		r.Guest = &model.Player{
			ConnID:      conn,
			DisplayName: NormalizeDisplayName(displayName),
		}
		r.Phase = model.PhaseReady
		return nil
	})
}

// Get returns a snapshot of the room
func (s *Store) Get(code model.RoomCode) (model.Room, error) {
	return s.Update(code, func(*model.Room) error { return nil })
}

// Update runs fn with exclusive access to the room's state and returns a
// snapshot taken after fn completes. If fn returns an error the snapshot
// reflects whatever fn did before failing; fn is expected not to mutate on
// its error paths. Returns ErrRoomNotFound if no room exists for the code.
func (s *Store) Update(code model.RoomCode, fn func(r *model.Room) error) (model.Room, error) {
	s.mu.RLock()
	e, ok := s.rooms[code]
	s.mu.RUnlock()
	if !ok {
		return model.Room{}, model.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.room); err != nil {
		return e.room.Clone(), err
	}
	return e.room.Clone(), nil
}

// Delete removes the room; deleting an absent code is a no-op. A concurrent
// Update already holding the room lock finishes against the removed room,
// which subsequent lookups treat as vanished.
func (s *Store) Delete(code model.RoomCode) {
	s.mu.Lock()
	delete(s.rooms, code)
	s.mu.Unlock()
}

// Len returns the number of active rooms
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Sweep evicts rooms that completed longer than ttl ago and returns
// snapshots of them, seats included, so the caller can release whatever
// still references the occupants. Host disconnect deletes rooms eagerly; the
// sweep reclaims completed rooms whose participants simply never left.
func (s *Store) Sweep(ttl time.Duration) []model.Room {
	cutoff := s.clock.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []model.Room
	for code, e := range s.rooms {
		e.mu.Lock()
		expired := e.room.Phase == model.PhaseCompleted && e.room.CompletedAt.Before(cutoff)
		snapshot := e.room.Clone()
		e.mu.Unlock()
		if expired {
			delete(s.rooms, code)
			evicted = append(evicted, snapshot)
		}
	}
	return evicted
}
