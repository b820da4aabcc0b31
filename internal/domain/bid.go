package domain

import (
	"context"
	"time"
)

// MaxAmountCents caps any bid or margin: $10,000,000.
const MaxAmountCents int64 = 1_000_000_000

type Bid struct {
	ID          string
	BidNumber   string
	CarrierID   string
	AmountCents int64
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuctionLock is the auction as observed inside a bid or award transaction,
// after the auction row has been locked.
type AuctionLock struct {
	Auction *Auction
	Awarded bool
}

// BidGuard runs inside the storage transaction before a bid row is written or
// removed. Returning an error aborts the transaction.
type BidGuard func(lock *AuctionLock) error

type BidRepository interface {
	// UpsertBid inserts or overwrites the carrier's single bid for the
	// auction in one statement. guard runs first, under a shared lock on
	// the auction row.
	UpsertBid(ctx context.Context, bid *Bid, guard BidGuard) (*Bid, error)
	// DeleteBid removes a bid owned by carrierID. ErrNotFound when the bid
	// does not exist or belongs to someone else.
	DeleteBid(ctx context.Context, bidID, carrierID string, guard BidGuard) (*Bid, error)
	GetBid(ctx context.Context, bidNumber, carrierID string) (*Bid, error)
	// ListBidsForAuction returns bids cheapest first.
	ListBidsForAuction(ctx context.Context, bidNumber string) ([]*Bid, error)
	ListBidsByCarrier(ctx context.Context, carrierID string, limit, offset int) ([]*Bid, error)
}
