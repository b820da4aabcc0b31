package mappers

import (
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainAuction(model *models.AuctionModel) *domain.Auction {
	return &domain.Auction{
		BidNumber:     model.BidNumber,
		DistanceMiles: model.DistanceMiles,
		PickupTime:    model.PickupTimestamp,
		DeliveryTime:  model.DeliveryTimestamp,
		Stops:         []string(model.Stops),
		Tag:           model.Tag,
		SourceChannel: model.SourceChannel,
		ReceivedAt:    model.ReceivedAt,
		ArchivedAt:    model.ArchivedAt,
		MatchedAt:     model.MatchedAt,
	}
}

func ToGORMAuction(auction *domain.Auction) *models.AuctionModel {
	stops := auction.Stops
	if stops == nil {
		stops = []string{}
	}
	return &models.AuctionModel{
		BidNumber:         auction.BidNumber,
		DistanceMiles:     auction.DistanceMiles,
		PickupTimestamp:   auction.PickupTime,
		DeliveryTimestamp: auction.DeliveryTime,
		Stops:             datatypes.NewJSONSlice(stops),
		Tag:               auction.Tag,
		SourceChannel:     auction.SourceChannel,
		ReceivedAt:        auction.ReceivedAt,
		ArchivedAt:        auction.ArchivedAt,
		MatchedAt:         auction.MatchedAt,
	}
}
