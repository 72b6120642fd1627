// Package model defines the core domain types shared across services.
package model

import "time"

// RoomCode uniquely identifies a room
type RoomCode string

// ConnID uniquely identifies a live client connection
type ConnID string

// RoomPhase represents where a room is in its lifecycle
type RoomPhase string

// Room phases
const (
	PhaseAwaitingGuest RoomPhase = "awaiting_guest"
	PhaseReady         RoomPhase = "ready"
	PhaseInProgress    RoomPhase = "in_progress"
	PhaseCompleted     RoomPhase = "completed"
)

// Seat identifies a player's position in a room
type Seat string

// Seats
const (
	SeatHost  Seat = "host"
	SeatGuest Seat = "guest"
)

// Other returns the opposing seat
func (s Seat) Other() Seat {
	if s == SeatHost {
		return SeatGuest
	}
	return SeatHost
}

// Player is one seated participant in a room
type Player struct {
	ConnID         ConnID
	DisplayName    string
	Score          int
	ElapsedSeconds float64
	Finished       bool
	FinishedAt     time.Time
}

// Room is a two-player match session
type Room struct {
	Code        RoomCode
	Phase       RoomPhase
	Host        *Player
	Guest       *Player
	CreatedAt   time.Time
	CompletedAt time.Time
}

// SeatOf returns the seat occupied by the given connection, if any
func (r *Room) SeatOf(conn ConnID) (Seat, bool) {
	if r.Host != nil && r.Host.ConnID == conn {
		return SeatHost, true
	}
	if r.Guest != nil && r.Guest.ConnID == conn {
		return SeatGuest, true
	}
	return "", false
}

// PlayerAt returns the player in the given seat, or nil if it is empty
func (r *Room) PlayerAt(seat Seat) *Player {
	if seat == SeatHost {
		return r.Host
	}
	return r.Guest
}

// Clone returns a deep copy safe to hand out as a snapshot
func (r *Room) Clone() Room {
	c := *r
	if r.Host != nil {
		host := *r.Host
		c.Host = &host
	}
	if r.Guest != nil {
		guest := *r.Guest
		c.Guest = &guest
	}
	return c
}
