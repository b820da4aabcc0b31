package bidding

import (
	"context"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/logger"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
	biddingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/bidding"
)

type BiddingUsecase interface {
	UpsertBid(ctx context.Context, input *biddingdto.UpsertBidInput) (*domain.Bid, error)
	CancelBid(ctx context.Context, input *biddingdto.CancelBidInput) error
	ListBidsForAuction(ctx context.Context, bidNumber string) ([]*domain.Bid, error)
	ListBidsByCarrier(ctx context.Context, carrierID string, limit, offset int) ([]*domain.Bid, error)
	GetBidSummary(ctx context.Context, bidNumber, carrierID string) (*biddingdto.BidSummary, error)
}

type DefaultBiddingUsecase struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
	profiles    domain.ProfileChecker
	clock       domain.Clock
	metrics     *metrics.AuctionMetrics
	eventLogger logger.BidEventLogger
}

func NewDefaultBiddingUsecase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	profiles domain.ProfileChecker,
	clock domain.Clock,
	metrics *metrics.AuctionMetrics,
	eventLogger logger.BidEventLogger,
) *DefaultBiddingUsecase {
	return &DefaultBiddingUsecase{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		profiles:    profiles,
		clock:       clock,
		metrics:     metrics,
		eventLogger: eventLogger,
	}
}

// biddingOpen is the guard run under the auction row lock. now is read here,
// inside the transaction, not when the request arrived.
func (uc *DefaultBiddingUsecase) biddingOpen(onOpen func(now time.Time)) domain.BidGuard {
	return func(lock *domain.AuctionLock) error {
		now := uc.clock.Now()
		if !lock.Auction.IsOpen(now) {
			return domain.AuctionClosed(lock.Auction.BidNumber, domain.ErrAuctionClosed.Message)
		}
		if lock.Awarded {
			return domain.AuctionClosed(lock.Auction.BidNumber, "auction already awarded, bids are frozen")
		}
		if onOpen != nil {
			onOpen(now)
		}
		return nil
	}
}
