package awarding

import (
	"context"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	awardingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/awarding"
)

func (uc *DefaultAwardingUsecase) GetCurrentAward(ctx context.Context, bidNumber string) (*domain.Award, error) {
	return uc.awardRepo.GetCurrentAward(ctx, bidNumber)
}

// GetAwardHistory returns every revision oldest first. The last one is current.
func (uc *DefaultAwardingUsecase) GetAwardHistory(ctx context.Context, bidNumber string) (*awardingdto.AwardHistory, error) {
	revisions, err := uc.awardRepo.GetAwardHistory(ctx, bidNumber)
	if err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, domain.NewError(domain.KindNotFound, bidNumber, "auction has not been awarded yet")
	}
	return &awardingdto.AwardHistory{
		BidNumber: bidNumber,
		Current:   revisions[len(revisions)-1],
		Revisions: revisions,
	}, nil
}

func (uc *DefaultAwardingUsecase) ListAwardsForCarrier(ctx context.Context, carrierID string) ([]*domain.Award, error) {
	return uc.awardRepo.ListCurrentAwardsForCarrier(ctx, carrierID)
}
