package bidding

import (
	"context"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	biddingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/bidding"
)

// ListBidsForAuction returns bids cheapest first, ties broken by who bid earlier.
func (uc *DefaultBiddingUsecase) ListBidsForAuction(ctx context.Context, bidNumber string) ([]*domain.Bid, error) {
	if _, err := uc.auctionRepo.GetAuction(ctx, bidNumber); err != nil {
		return nil, err
	}
	return uc.bidRepo.ListBidsForAuction(ctx, bidNumber)
}

func (uc *DefaultBiddingUsecase) ListBidsByCarrier(ctx context.Context, carrierID string, limit, offset int) ([]*domain.Bid, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.bidRepo.ListBidsByCarrier(ctx, carrierID, limit, offset)
}

func (uc *DefaultBiddingUsecase) GetBidSummary(ctx context.Context, bidNumber, carrierID string) (*biddingdto.BidSummary, error) {
	auction, err := uc.auctionRepo.GetAuction(ctx, bidNumber)
	if err != nil {
		return nil, err
	}
	bids, err := uc.bidRepo.ListBidsForAuction(ctx, bidNumber)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	summary := &biddingdto.BidSummary{
		Auction:   auction,
		Status:    auction.Status(now),
		ExpiresAt: auction.ExpiresAt(),
		TimeLeft:  auction.TimeLeft(now),
		BidCount:  len(bids),
	}
	if len(bids) > 0 {
		lowest := bids[0].AmountCents
		summary.LowestAmountCents = &lowest
		summary.LowestBidCarrierID = bids[0].CarrierID
	}
	for _, b := range bids {
		if b.CarrierID == carrierID {
			summary.MyBid = b
			break
		}
	}
	return summary, nil
}
