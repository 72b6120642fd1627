package request

// SubmitScoreRequest is the request body for submitting a leaderboard entry
type SubmitScoreRequest struct {
	DisplayName    string  `json:"display_name"`
	Score          int     `json:"score"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
