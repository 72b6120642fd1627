package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrNotHost            = errors.New("requester is not the host")
	ErrOpponentNotPresent = errors.New("no opponent in the room")
	ErrAlreadyInRoom      = errors.New("connection already belongs to a room")
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")

	// Leaderboard errors
	ErrInvalidSort = errors.New("invalid leaderboard sort")
)
