// Package adjudicate decides the outcome of a completed two-player match.
// It is deliberately pure: score and elapsed time are the only inputs, so
// finish order never influences the result.
package adjudicate

import "github.com/mcoot/puzzleduel-go/internal/model"

// Human-readable outcome reasons, delivered verbatim to clients
const (
	ReasonMorePoints = "more points"
	ReasonFasterTime = "equal points, faster time"
	ReasonFullTie    = "full tie"
)

// Outcome is the adjudicated result of a match
type Outcome struct {
	Winner model.Seat // Meaningless when Draw is true
	Draw   bool
	Reason string
}

// WinnerIs reports whether the given seat won the match
func (o Outcome) WinnerIs(seat model.Seat) bool {
	return !o.Draw && o.Winner == seat
}

// Decide adjudicates a finished match. Higher score wins outright; equal
// scores fall back to the faster completion time; equal scores and equal
// times are a draw.
func Decide(hostScore int, hostTime float64, guestScore int, guestTime float64) Outcome {
	switch {
	case hostScore > guestScore:
		return Outcome{Winner: model.SeatHost, Reason: ReasonMorePoints}
	case guestScore > hostScore:
		return Outcome{Winner: model.SeatGuest, Reason: ReasonMorePoints}
	case hostTime < guestTime:
		return Outcome{Winner: model.SeatHost, Reason: ReasonFasterTime}
	case guestTime < hostTime:
		return Outcome{Winner: model.SeatGuest, Reason: ReasonFasterTime}
	default:
		return Outcome{Draw: true, Reason: ReasonFullTie}
	}
}
