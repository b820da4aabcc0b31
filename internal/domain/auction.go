package domain

import (
	"context"
	"strings"
	"time"
)

// AuctionTTL is how long an auction accepts bids after it was received.
const AuctionTTL = 25 * time.Minute

type AuctionStatus string

const (
	AuctionOpen    AuctionStatus = "OPEN"
	AuctionExpired AuctionStatus = "EXPIRED"
)

type Auction struct {
	BidNumber     string
	DistanceMiles int
	PickupTime    *time.Time
	DeliveryTime  *time.Time
	Stops         []string
	Tag           string
	SourceChannel string
	ReceivedAt    time.Time
	ArchivedAt    *time.Time
	MatchedAt     *time.Time
}

// ExpiresAt is always ReceivedAt + AuctionTTL; it is never stored independently.
func (a *Auction) ExpiresAt() time.Time {
	return a.ReceivedAt.Add(AuctionTTL)
}

// Status derives the auction state from the wall clock. Every bid, cancel and
// award path goes through here so they agree on what "closed" means.
func (a *Auction) Status(now time.Time) AuctionStatus {
	if now.Before(a.ExpiresAt()) {
		return AuctionOpen
	}
	return AuctionExpired
}

func (a *Auction) IsOpen(now time.Time) bool {
	return a.Status(now) == AuctionOpen
}

func (a *Auction) TimeLeft(now time.Time) time.Duration {
	left := a.ExpiresAt().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

func (a *Auction) IsArchived() bool {
	return a.ArchivedAt != nil
}

func (a *Auction) Origin() string {
	if len(a.Stops) == 0 {
		return ""
	}
	return a.Stops[0]
}

func (a *Auction) Destination() string {
	if len(a.Stops) == 0 {
		return ""
	}
	return a.Stops[len(a.Stops)-1]
}

// StateCode extracts the trailing two-letter state from "City, ST" or
// "City, ST 12345" style stop strings. Returns "" when none is present.
func StateCode(stop string) string {
	parts := strings.Split(stop, ",")
	if len(parts) < 2 {
		return ""
	}
	fields := strings.Fields(parts[len(parts)-1])
	if len(fields) == 0 {
		return ""
	}
	code := strings.ToUpper(fields[0])
	if len(code) != 2 {
		return ""
	}
	return code
}

// Clock supplies "now". Use cases read it inside storage transactions.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type AuctionFilter struct {
	Tag    string
	Query  string
	Limit  int
	Offset int
}

type AuctionRepository interface {
	// CreateAuction inserts a new auction. created is false when the bid
	// number already existed, in which case nothing is written.
	CreateAuction(ctx context.Context, auction *Auction) (created bool, err error)
	GetAuction(ctx context.Context, bidNumber string) (*Auction, error)
	ListActiveAuctions(ctx context.Context, now time.Time, filter AuctionFilter) ([]*Auction, error)
	ListUnmatched(ctx context.Context, now time.Time, limit int) ([]*Auction, error)
	MarkMatched(ctx context.Context, bidNumber string, at time.Time) error
	ArchiveExpired(ctx context.Context, closedBefore, archivedAt time.Time, limit int) (int64, error)
}
