package model

import "encoding/json"

// EventName identifies a wire event. Names match the client protocol exactly.
type EventName string

// Client -> server events
const (
	EventCreateRoom   EventName = "createRoom"
	EventJoinRoom     EventName = "joinRoom"
	EventStartGame    EventName = "startGame"
	EventScoreUpdate  EventName = "scoreUpdate"
	EventGameFinished EventName = "gameFinished"
)

// Server -> client events
const (
	EventRoomCreated      EventName = "roomCreated"
	EventRoomJoined       EventName = "roomJoined"
	EventOpponentJoined   EventName = "opponentJoined"
	EventError            EventName = "error"
	EventGameStart        EventName = "gameStart"
	EventOpponentUpdate   EventName = "opponentUpdate"
	EventOpponentFinished EventName = "opponentFinished"
	EventGameResult       EventName = "gameResult"
	EventHostDisconnected EventName = "hostDisconnected"
	EventOpponentLeft     EventName = "opponentLeft"
)

// ClientEvent is the inbound wire envelope. Data is decoded per event name.
type ClientEvent struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the outbound wire envelope
type ServerEvent struct {
	Event EventName `json:"event"`
	Data  any       `json:"data,omitempty"`
}

// CreateRoomPayload is the data for createRoom
type CreateRoomPayload struct {
	DisplayName string `json:"displayName"`
}

// JoinRoomPayload is the data for joinRoom
type JoinRoomPayload struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// StartGamePayload is the data for startGame
type StartGamePayload struct {
	Code string `json:"code"`
}

// ScoreUpdatePayload is the data for scoreUpdate
type ScoreUpdatePayload struct {
	Code  string `json:"code"`
	Score int    `json:"score"`
}

// GameFinishedPayload is the data for gameFinished
type GameFinishedPayload struct {
	Code           string  `json:"code"`
	DisplayName    string  `json:"displayName"`
	Score          int     `json:"score"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// RoomCreatedPayload acks room creation to the creator
type RoomCreatedPayload struct {
	Code RoomCode `json:"code"`
}

// RoomJoinedPayload acks a successful join to the joiner
type RoomJoinedPayload struct {
	Code RoomCode `json:"code"`
}

// OpponentJoinedPayload tells a seat the other seat's name
type OpponentJoinedPayload struct {
	OpponentName string `json:"opponentName"`
}

// ErrorPayload carries a user-facing error message
type ErrorPayload struct {
	Message string `json:"message"`
}

// OpponentUpdatePayload relays the other seat's running score
type OpponentUpdatePayload struct {
	Score int `json:"score"`
}

// OpponentFinishedPayload is the one-sided finish notice
type OpponentFinishedPayload struct {
	DisplayName    string  `json:"displayName"`
	Score          int     `json:"score"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
	Waiting        bool    `json:"waiting"`
}

// GameResultPayload is the adjudicated result expressed from the receiving
// seat's point of view
type GameResultPayload struct {
	MyScore       int     `json:"myScore"`
	MyTime        float64 `json:"myTime"`
	OpponentScore int     `json:"opponentScore"`
	OpponentTime  float64 `json:"opponentTime"`
	OpponentName  string  `json:"opponentName"`
	IsWinner      bool    `json:"isWinner"`
	IsDraw        bool    `json:"isDraw"`
	Reason        string  `json:"reason"`
}
