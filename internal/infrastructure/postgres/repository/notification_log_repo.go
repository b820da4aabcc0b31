package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultNotificationLogRepository struct {
	DB *gorm.DB
}

func NewDefaultNotificationLogRepository(db *gorm.DB) *DefaultNotificationLogRepository {
	return &DefaultNotificationLogRepository{DB: db}
}

// RecordOnce вставляет строку лога с ON CONFLICT DO NOTHING и вызывает deliver внутри
// той же транзакции. Ошибка доставки откатывает вставку.
func (r *DefaultNotificationLogRepository) RecordOnce(ctx context.Context, entry *domain.NotificationLog, deliver func() error) (bool, error) {
	sent := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		logModel := &models.NotificationLogModel{
			ID:        entry.ID,
			TriggerID: entry.TriggerID,
			BidNumber: entry.BidNumber,
			CarrierID: entry.CarrierID,
			Message:   entry.Message,
			SentAt:    entry.SentAt,
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trigger_id"}, {Name: "bid_number"}},
			DoNothing: true,
		}).Create(logModel)
		if result.Error != nil {
			return fmt.Errorf("failed to claim notification: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := deliver(); err != nil {
			return err
		}
		sent = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return sent, nil
}

func (r *DefaultNotificationLogRepository) CountUniqueBidsNotified(ctx context.Context, carrierID string, since time.Time) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.NotificationLogModel{}).
		Where("carrier_id = ? AND sent_at >= ?", carrierID, since).
		Distinct("bid_number").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications of %s: %w", carrierID, err)
	}
	return count, nil
}
