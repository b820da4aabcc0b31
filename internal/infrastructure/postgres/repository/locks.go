package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	lockShare  = "SHARE"
	lockUpdate = "UPDATE"

	// Raised by the carrier_bids freeze trigger, see migrations.
	sqlStateBidsFrozen = "FA001"
)

// lockAuction locks the auction row and reports whether it has been awarded.
// Bid writers take SHARE, award writers take UPDATE, so a bid write and an
// award on the same auction never interleave.
func lockAuction(tx *gorm.DB, bidNumber, strength string) (*domain.AuctionLock, error) {
	var auctionModel models.AuctionModel
	if err := tx.Clauses(clause.Locking{Strength: strength}).
		First(&auctionModel, "bid_number = ?", bidNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("auction " + bidNumber)
		}
		return nil, fmt.Errorf("failed to lock auction %s: %w", bidNumber, err)
	}

	var awards int64
	if err := tx.Model(&models.AuctionAwardModel{}).
		Where("bid_number = ?", bidNumber).
		Count(&awards).Error; err != nil {
		return nil, fmt.Errorf("failed to check awards for %s: %w", bidNumber, err)
	}

	return &domain.AuctionLock{
		Auction: mappers.ToDomainAuction(&auctionModel),
		Awarded: awards > 0,
	}, nil
}

func isBidsFrozen(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateBidsFrozen
}
