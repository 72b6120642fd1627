// Package clock is the time seam. Room lifecycle timestamps (created,
// finished, completed) and leaderboard record times all flow through it so
// tests can pin and advance time deterministically.
package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
