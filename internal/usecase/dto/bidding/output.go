package biddingdto

import (
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

// BidSummary is the carrier-facing view of one auction.
type BidSummary struct {
	Auction            *domain.Auction
	Status             domain.AuctionStatus
	ExpiresAt          time.Time
	TimeLeft           time.Duration
	BidCount           int
	LowestAmountCents  *int64
	LowestBidCarrierID string
	MyBid              *domain.Bid
}
