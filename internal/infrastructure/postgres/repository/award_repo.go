package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const currentAwardsView = "current_auction_awards"

type DefaultAwardRepository struct {
	DB *gorm.DB
}

func NewDefaultAwardRepository(db *gorm.DB) *DefaultAwardRepository {
	return &DefaultAwardRepository{DB: db}
}

// CreateAward записывает первую ревизию. Строка аукциона блокируется FOR UPDATE,
// поэтому параллельные ставки и отмены ждут окончания транзакции.
func (r *DefaultAwardRepository) CreateAward(ctx context.Context, award *domain.Award) (*domain.Award, error) {
	var created *domain.Award
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock, err := lockAuction(tx, award.BidNumber, lockUpdate)
		if err != nil {
			return err
		}
		if lock.Awarded {
			return domain.NewError(domain.KindAlreadyAwarded, award.BidNumber, domain.ErrAlreadyAwarded.Message)
		}

		winnerBid, err := findWinnerBid(tx, award.BidNumber, award.WinnerCarrierID)
		if err != nil {
			return err
		}

		awardModel := mappers.ToGORMAward(award)
		awardModel.Revision = 1
		awardModel.Kind = string(domain.AwardInitial)
		awardModel.WinnerAmountCents = winnerBid.AmountCents
		if err := tx.Create(awardModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewError(domain.KindAlreadyAwarded, award.BidNumber, domain.ErrAlreadyAwarded.Message)
			}
			return err
		}
		created = mappers.ToDomainAward(awardModel)
		return nil
	})
	if err != nil {
		return nil, translateAwardError(err)
	}
	return created, nil
}

// AppendAward добавляет ревизию n+1 поверх текущей. Предыдущая строка не удаляется,
// только получает superseded_at. Повторный re-award на текущего победителя ничего не пишет
// и возвращает текущую ревизию.
func (r *DefaultAwardRepository) AppendAward(ctx context.Context, award *domain.Award) (*domain.Award, error) {
	var appended *domain.Award
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockAuction(tx, award.BidNumber, lockUpdate); err != nil {
			return err
		}

		var current models.AuctionAwardModel
		if err := tx.Clauses(clause.Locking{Strength: lockUpdate}).
			Where("bid_number = ?", award.BidNumber).
			Order("revision DESC").
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewError(domain.KindNotFound, award.BidNumber, "auction has not been awarded yet")
			}
			return err
		}

		winnerBid, err := findWinnerBid(tx, award.BidNumber, award.WinnerCarrierID)
		if err != nil {
			return err
		}

		if current.WinnerCarrierID == award.WinnerCarrierID {
			appended = mappers.ToDomainAward(&current)
			return nil
		}

		// сначала снимаем текущую ревизию: индекс допускает одну строку без superseded_at
		result := tx.Model(&models.AuctionAwardModel{}).
			Where("id = ? AND superseded_at IS NULL", current.ID).
			Update("superseded_at", award.AwardedAt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return domain.NewError(domain.KindAwardConflict, award.BidNumber, domain.ErrAwardConflict.Message)
		}

		awardModel := mappers.ToGORMAward(award)
		awardModel.Revision = current.Revision + 1
		awardModel.Kind = string(domain.AwardReAward)
		awardModel.WinnerAmountCents = winnerBid.AmountCents
		if err := tx.Create(awardModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewError(domain.KindAwardConflict, award.BidNumber, domain.ErrAwardConflict.Message)
			}
			return err
		}

		appended = mappers.ToDomainAward(awardModel)
		return nil
	})
	if err != nil {
		return nil, translateAwardError(err)
	}
	return appended, nil
}

func (r *DefaultAwardRepository) GetCurrentAward(ctx context.Context, bidNumber string) (*domain.Award, error) {
	var awardModel models.AuctionAwardModel
	if err := r.DB.WithContext(ctx).Table(currentAwardsView).
		Where("bid_number = ?", bidNumber).
		Take(&awardModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, bidNumber, "auction has not been awarded yet")
		}
		return nil, fmt.Errorf("failed to get current award for %s: %w", bidNumber, err)
	}
	return mappers.ToDomainAward(&awardModel), nil
}

func (r *DefaultAwardRepository) GetAwardHistory(ctx context.Context, bidNumber string) ([]*domain.Award, error) {
	var awardModels []models.AuctionAwardModel
	if err := r.DB.WithContext(ctx).
		Where("bid_number = ?", bidNumber).
		Order("revision ASC").
		Find(&awardModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get award history for %s: %w", bidNumber, err)
	}
	return toDomainAwards(awardModels), nil
}

func (r *DefaultAwardRepository) ListCurrentAwardsForCarrier(ctx context.Context, carrierID string) ([]*domain.Award, error) {
	var awardModels []models.AuctionAwardModel
	if err := r.DB.WithContext(ctx).Table(currentAwardsView).
		Where("winner_carrier_id = ?", carrierID).
		Order("awarded_at DESC").
		Find(&awardModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list awards of carrier %s: %w", carrierID, err)
	}
	return toDomainAwards(awardModels), nil
}

func (r *DefaultAwardRepository) RecentDeliveries(ctx context.Context, carrierID string, since time.Time) ([]domain.RecentDelivery, error) {
	var rows []struct {
		BidNumber string
		AwardedAt time.Time
		Stops     datatypes.JSONSlice[string]
	}
	if err := r.DB.WithContext(ctx).Table(currentAwardsView+" AS ca").
		Select("ca.bid_number, ca.awarded_at, a.stops").
		Joins("JOIN auctions a ON a.bid_number = ca.bid_number").
		Where("ca.winner_carrier_id = ? AND ca.awarded_at >= ?", carrierID, since).
		Order("ca.awarded_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent deliveries of %s: %w", carrierID, err)
	}

	deliveries := make([]domain.RecentDelivery, 0, len(rows))
	for _, row := range rows {
		if len(row.Stops) == 0 {
			continue
		}
		deliveries = append(deliveries, domain.RecentDelivery{
			BidNumber:   row.BidNumber,
			Destination: row.Stops[len(row.Stops)-1],
			AwardedAt:   row.AwardedAt,
		})
	}
	return deliveries, nil
}

func findWinnerBid(tx *gorm.DB, bidNumber, carrierID string) (*models.CarrierBidModel, error) {
	var bidModel models.CarrierBidModel
	if err := tx.First(&bidModel, "bid_number = ? AND carrier_id = ?", bidNumber, carrierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindWinnerHasNoBid, bidNumber, domain.ErrWinnerHasNoBid.Message)
		}
		return nil, err
	}
	return &bidModel, nil
}

func translateAwardError(err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return fmt.Errorf("award write failed: %w", err)
}

func toDomainAwards(awardModels []models.AuctionAwardModel) []*domain.Award {
	awards := make([]*domain.Award, len(awardModels))
	for i := range awardModels {
		awards[i] = mappers.ToDomainAward(&awardModels[i])
	}
	return awards
}
