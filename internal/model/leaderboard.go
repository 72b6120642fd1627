package model

import "time"

// LeaderboardSort selects the ordering of a leaderboard listing
type LeaderboardSort string

const (
	SortByScore LeaderboardSort = "score" // Highest score first
	SortByTime  LeaderboardSort = "time"  // Fastest completion first
	SortByDate  LeaderboardSort = "date"  // Most recent first
)

// ParseLeaderboardSort validates a sort name, defaulting empty to score
func ParseLeaderboardSort(s string) (LeaderboardSort, error) {
	switch LeaderboardSort(s) {
	case SortByScore, SortByTime, SortByDate:
		return LeaderboardSort(s), nil
	case "":
		return SortByScore, nil
	default:
		return "", ErrInvalidSort
	}
}

// LeaderboardEntry is one finished-match record
type LeaderboardEntry struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Score          int       `json:"score"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	RecordedAt     time.Time `json:"recorded_at"`
}
