package domain

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestAuctionStatus(t *testing.T) {
	received := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &Auction{BidNumber: "93012", ReceivedAt: received}

	check.Equal(t, received.Add(25*time.Minute), a.ExpiresAt())
	check.Equal(t, AuctionOpen, a.Status(received))
	check.Equal(t, AuctionOpen, a.Status(received.Add(24*time.Minute+59*time.Second)))
	// ровно на границе аукцион уже закрыт
	check.Equal(t, AuctionExpired, a.Status(received.Add(25*time.Minute)))
	check.False(t, a.IsOpen(received.Add(time.Hour)))

	check.Equal(t, 10*time.Minute, a.TimeLeft(received.Add(15*time.Minute)))
	check.Equal(t, time.Duration(0), a.TimeLeft(received.Add(time.Hour)))
}

func TestAuctionStops(t *testing.T) {
	a := &Auction{Stops: []string{"Dallas, TX 75201", "Tulsa, OK", "Chicago, IL"}}
	check.Equal(t, "Dallas, TX 75201", a.Origin())
	check.Equal(t, "Chicago, IL", a.Destination())

	empty := &Auction{}
	check.Equal(t, "", empty.Origin())
	check.Equal(t, "", empty.Destination())
}

func TestStateCode(t *testing.T) {
	cases := map[string]string{
		"Dallas, TX":             "TX",
		"Dallas, tx 75201":       "TX",
		"Kansas City, MO, 64101": "",
		"Springfield":            "",
		"Springfield, ":          "",
		"Portland, Oregon":       "",
	}
	for stop, want := range cases {
		t.Run(stop, func(t *testing.T) {
			check.Equal(t, want, StateCode(stop))
		})
	}
}
