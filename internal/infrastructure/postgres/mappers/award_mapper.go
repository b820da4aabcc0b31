package mappers

import (
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
)

func ToDomainAward(model *models.AuctionAwardModel) *domain.Award {
	return &domain.Award{
		ID:                model.ID,
		BidNumber:         model.BidNumber,
		Revision:          model.Revision,
		Kind:              domain.AwardKind(model.Kind),
		WinnerCarrierID:   model.WinnerCarrierID,
		WinnerAmountCents: model.WinnerAmountCents,
		AwardedBy:         model.AwardedBy,
		AwardedAt:         model.AwardedAt,
		MarginCents:       model.MarginCents,
		AdminNotes:        derefString(model.AdminNotes),
		SupersededAt:      model.SupersededAt,
	}
}

func ToGORMAward(award *domain.Award) *models.AuctionAwardModel {
	return &models.AuctionAwardModel{
		ID:                award.ID,
		BidNumber:         award.BidNumber,
		Revision:          award.Revision,
		Kind:              string(award.Kind),
		WinnerCarrierID:   award.WinnerCarrierID,
		WinnerAmountCents: award.WinnerAmountCents,
		AwardedBy:         award.AwardedBy,
		AwardedAt:         award.AwardedAt,
		MarginCents:       award.MarginCents,
		AdminNotes:        optionalString(award.AdminNotes),
		SupersededAt:      award.SupersededAt,
	}
}
