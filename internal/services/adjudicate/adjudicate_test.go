package adjudicate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		hostScore  int
		hostTime   float64
		guestScore int
		guestTime  float64
		want       Outcome
	}{
		{
			name:      "host wins on points",
			hostScore: 10, hostTime: 120, guestScore: 8, guestTime: 90,
			want: Outcome{Winner: model.SeatHost, Reason: ReasonMorePoints},
		},
		{
			name:      "guest wins on points despite slower time",
			hostScore: 8, hostTime: 100, guestScore: 10, guestTime: 90,
			want: Outcome{Winner: model.SeatGuest, Reason: ReasonMorePoints},
		},
		{
			name:      "guest wins faster time on equal points",
			hostScore: 10, hostTime: 120, guestScore: 10, guestTime: 90,
			want: Outcome{Winner: model.SeatGuest, Reason: ReasonFasterTime},
		},
		{
			name:      "host wins faster time on equal points",
			hostScore: 10, hostTime: 90, guestScore: 10, guestTime: 120,
			want: Outcome{Winner: model.SeatHost, Reason: ReasonFasterTime},
		},
		{
			name:      "full tie",
			hostScore: 10, hostTime: 100, guestScore: 10, guestTime: 100,
			want: Outcome{Draw: true, Reason: ReasonFullTie},
		},
		{
			name:      "zero scores fall through to time",
			hostScore: 0, hostTime: 30, guestScore: 0, guestTime: 45,
			want: Outcome{Winner: model.SeatHost, Reason: ReasonFasterTime},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.hostScore, tt.hostTime, tt.guestScore, tt.guestTime)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWinnerIs(t *testing.T) {
	win := Decide(10, 120, 8, 90)
	assert.True(t, win.WinnerIs(model.SeatHost))
	assert.False(t, win.WinnerIs(model.SeatGuest))

	draw := Decide(5, 60, 5, 60)
	assert.False(t, draw.WinnerIs(model.SeatHost))
	assert.False(t, draw.WinnerIs(model.SeatGuest))
}
