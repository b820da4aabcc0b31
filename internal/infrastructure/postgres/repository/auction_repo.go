package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAuctionRepository struct {
	DB *gorm.DB
}

func NewDefaultAuctionRepository(db *gorm.DB) *DefaultAuctionRepository {
	return &DefaultAuctionRepository{DB: db}
}

func (r *DefaultAuctionRepository) CreateAuction(ctx context.Context, auction *domain.Auction) (bool, error) {
	auctionModel := mappers.ToGORMAuction(auction)
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "bid_number"}}, DoNothing: true}).
		Create(auctionModel)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert auction %s: %w", auction.BidNumber, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultAuctionRepository) GetAuction(ctx context.Context, bidNumber string) (*domain.Auction, error) {
	var auctionModel models.AuctionModel
	if err := r.DB.WithContext(ctx).First(&auctionModel, "bid_number = ?", bidNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("auction " + bidNumber)
		}
		return nil, fmt.Errorf("failed to get auction %s: %w", bidNumber, err)
	}
	return mappers.ToDomainAuction(&auctionModel), nil
}

func (r *DefaultAuctionRepository) ListActiveAuctions(ctx context.Context, now time.Time, filter domain.AuctionFilter) ([]*domain.Auction, error) {
	query := r.DB.WithContext(ctx).Model(&models.AuctionModel{}).
		Where("received_at > ?", now.Add(-domain.AuctionTTL)).
		Where("archived_at IS NULL")

	if filter.Tag != "" {
		query = query.Where("UPPER(tag) = UPPER(?)", filter.Tag)
	}
	if filter.Query != "" {
		query = query.Where("bid_number LIKE ?", "%"+filter.Query+"%")
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var auctionModels []models.AuctionModel
	if err := query.
		Order("received_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&auctionModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list active auctions: %w", err)
	}
	return toDomainAuctions(auctionModels), nil
}

func (r *DefaultAuctionRepository) ListUnmatched(ctx context.Context, now time.Time, limit int) ([]*domain.Auction, error) {
	var auctionModels []models.AuctionModel
	if err := r.DB.WithContext(ctx).
		Where("matched_at IS NULL").
		Where("received_at > ?", now.Add(-domain.AuctionTTL)).
		Order("received_at ASC").
		Limit(limit).
		Find(&auctionModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list unmatched auctions: %w", err)
	}
	return toDomainAuctions(auctionModels), nil
}

func (r *DefaultAuctionRepository) MarkMatched(ctx context.Context, bidNumber string, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&models.AuctionModel{}).
		Where("bid_number = ? AND matched_at IS NULL", bidNumber).
		Update("matched_at", at).Error
}

// ArchiveExpired stamps at most limit auctions that closed before closedBefore.
func (r *DefaultAuctionRepository) ArchiveExpired(ctx context.Context, closedBefore, archivedAt time.Time, limit int) (int64, error) {
	chunk := r.DB.WithContext(ctx).
		Model(&models.AuctionModel{}).
		Select("bid_number").
		Where("archived_at IS NULL").
		Where("received_at < ?", closedBefore.Add(-domain.AuctionTTL)).
		Order("received_at ASC").
		Limit(limit)

	result := r.DB.WithContext(ctx).
		Model(&models.AuctionModel{}).
		Where("bid_number IN (?)", chunk).
		Update("archived_at", archivedAt)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to archive auctions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toDomainAuctions(auctionModels []models.AuctionModel) []*domain.Auction {
	auctions := make([]*domain.Auction, len(auctionModels))
	for i := range auctionModels {
		auctions[i] = mappers.ToDomainAuction(&auctionModels[i])
	}
	return auctions
}
