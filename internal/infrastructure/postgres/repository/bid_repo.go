package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultBidRepository struct {
	DB *gorm.DB
}

func NewDefaultBidRepository(db *gorm.DB) *DefaultBidRepository {
	return &DefaultBidRepository{DB: db}
}

func (r *DefaultBidRepository) UpsertBid(ctx context.Context, bid *domain.Bid, guard domain.BidGuard) (*domain.Bid, error) {
	var saved *domain.Bid
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock, err := lockAuction(tx, bid.BidNumber, lockShare)
		if err != nil {
			return err
		}
		if err := guard(lock); err != nil {
			return err
		}

		bidModel := mappers.ToGORMBid(bid)
		if err := tx.Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "bid_number"}, {Name: "carrier_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"amount_cents", "notes", "updated_at"}),
			},
			clause.Returning{},
		).Create(bidModel).Error; err != nil {
			return err
		}
		saved = mappers.ToDomainBid(bidModel)
		return nil
	})
	if err != nil {
		return nil, translateBidError(bid.BidNumber, err)
	}
	return saved, nil
}

func (r *DefaultBidRepository) DeleteBid(ctx context.Context, bidID, carrierID string, guard domain.BidGuard) (*domain.Bid, error) {
	var deleted *domain.Bid
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bidModel models.CarrierBidModel
		if err := tx.First(&bidModel, "id = ? AND carrier_id = ?", bidID, carrierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("bid " + bidID)
			}
			return err
		}

		lock, err := lockAuction(tx, bidModel.BidNumber, lockShare)
		if err != nil {
			return err
		}
		if err := guard(lock); err != nil {
			return err
		}

		if err := tx.Delete(&models.CarrierBidModel{}, "id = ?", bidID).Error; err != nil {
			return err
		}
		deleted = mappers.ToDomainBid(&bidModel)
		return nil
	})
	if err != nil {
		return nil, translateBidError("", err)
	}
	return deleted, nil
}

func (r *DefaultBidRepository) GetBid(ctx context.Context, bidNumber, carrierID string) (*domain.Bid, error) {
	var bidModel models.CarrierBidModel
	if err := r.DB.WithContext(ctx).
		First(&bidModel, "bid_number = ? AND carrier_id = ?", bidNumber, carrierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("bid")
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return mappers.ToDomainBid(&bidModel), nil
}

func (r *DefaultBidRepository) ListBidsForAuction(ctx context.Context, bidNumber string) ([]*domain.Bid, error) {
	var bidModels []models.CarrierBidModel
	if err := r.DB.WithContext(ctx).
		Where("bid_number = ?", bidNumber).
		Order("amount_cents ASC").
		Order("updated_at ASC").
		Find(&bidModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list bids for %s: %w", bidNumber, err)
	}
	return toDomainBids(bidModels), nil
}

func (r *DefaultBidRepository) ListBidsByCarrier(ctx context.Context, carrierID string, limit, offset int) ([]*domain.Bid, error) {
	if limit <= 0 {
		limit = 50
	}
	var bidModels []models.CarrierBidModel
	if err := r.DB.WithContext(ctx).
		Where("carrier_id = ?", carrierID).
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bidModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list bids of carrier %s: %w", carrierID, err)
	}
	return toDomainBids(bidModels), nil
}

func translateBidError(bidNumber string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	if isBidsFrozen(err) {
		return domain.AuctionClosed(bidNumber, "auction already awarded, bids are frozen")
	}
	return fmt.Errorf("bid ledger write failed: %w", err)
}

func toDomainBids(bidModels []models.CarrierBidModel) []*domain.Bid {
	bids := make([]*domain.Bid, len(bidModels))
	for i := range bidModels {
		bids[i] = mappers.ToDomainBid(&bidModels[i])
	}
	return bids
}
