package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case LeaderboardEntry:
		o.printLeaderboardEntry(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Score          int       `json:"score"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// Leaderboard response type
type Leaderboard struct {
	Sort    string             `json:"sort"`
	Entries []LeaderboardEntry `json:"entries"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status:      %s\n", h.Status)
	fmt.Printf("Connections: %d\n", h.Connections)
	fmt.Printf("Rooms:       %d\n", h.Rooms)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Entries) == 0 {
		fmt.Println("No entries")
		return
	}
	fmt.Printf("Leaderboard (by %s):\n", l.Sort)
	for i, e := range l.Entries {
		fmt.Printf("%3d. %-20s %5d pts  %7.1fs  %s\n",
			i+1, e.DisplayName, e.Score, e.ElapsedSeconds,
			e.RecordedAt.Format(time.RFC3339))
	}
}

func (o *Output) printLeaderboardEntry(e LeaderboardEntry) {
	fmt.Printf("Recorded entry %s\n", e.ID)
	fmt.Printf("Name:  %s\n", e.DisplayName)
	fmt.Printf("Score: %d\n", e.Score)
	fmt.Printf("Time:  %.1fs\n", e.ElapsedSeconds)
}
