package response

import (
	"time"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

// LeaderboardEntry represents a leaderboard record in API responses
type LeaderboardEntry struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Score          int       `json:"score"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// LeaderboardEntryFromModel converts a model.LeaderboardEntry
func LeaderboardEntryFromModel(e *model.LeaderboardEntry) LeaderboardEntry {
	return LeaderboardEntry{
		ID:             e.ID,
		DisplayName:    e.DisplayName,
		Score:          e.Score,
		ElapsedSeconds: e.ElapsedSeconds,
		RecordedAt:     e.RecordedAt,
	}
}

// Leaderboard is the response for leaderboard listings
type Leaderboard struct {
	Sort    string             `json:"sort"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts a ranked listing
func LeaderboardFromModel(sort model.LeaderboardSort, entries []*model.LeaderboardEntry) Leaderboard {
	resp := Leaderboard{
		Sort:    string(sort),
		Entries: make([]LeaderboardEntry, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = LeaderboardEntryFromModel(e)
	}
	return resp
}

// Health is the response for the health endpoint
type Health struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}
