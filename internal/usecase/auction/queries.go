package auction

import (
	"context"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

func (uc *DefaultAuctionUsecase) GetAuction(ctx context.Context, bidNumber string) (*domain.Auction, error) {
	return uc.auctionRepo.GetAuction(ctx, bidNumber)
}

func (uc *DefaultAuctionUsecase) ListActiveAuctions(ctx context.Context, filter domain.AuctionFilter) ([]*domain.Auction, error) {
	return uc.auctionRepo.ListActiveAuctions(ctx, uc.clock.Now(), filter)
}
