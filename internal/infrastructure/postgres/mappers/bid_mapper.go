package mappers

import (
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
)

func ToDomainBid(model *models.CarrierBidModel) *domain.Bid {
	bid := &domain.Bid{
		ID:          model.ID,
		BidNumber:   model.BidNumber,
		CarrierID:   model.CarrierID,
		AmountCents: model.AmountCents,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.Notes != nil {
		bid.Notes = *model.Notes
	}
	return bid
}

func ToGORMBid(bid *domain.Bid) *models.CarrierBidModel {
	return &models.CarrierBidModel{
		ID:          bid.ID,
		BidNumber:   bid.BidNumber,
		CarrierID:   bid.CarrierID,
		AmountCents: bid.AmountCents,
		Notes:       optionalString(bid.Notes),
		CreatedAt:   bid.CreatedAt,
		UpdatedAt:   bid.UpdatedAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
