package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTriggerRepository struct {
	DB *gorm.DB
}

func NewDefaultTriggerRepository(db *gorm.DB) *DefaultTriggerRepository {
	return &DefaultTriggerRepository{DB: db}
}

func (r *DefaultTriggerRepository) CreateTrigger(ctx context.Context, trigger *domain.Trigger) error {
	triggerModel, err := mappers.ToGORMTrigger(trigger)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(triggerModel).Error; err != nil {
		return fmt.Errorf("failed to create trigger: %w", err)
	}
	return nil
}

func (r *DefaultTriggerRepository) UpdateTrigger(ctx context.Context, trigger *domain.Trigger) error {
	triggerModel, err := mappers.ToGORMTrigger(trigger)
	if err != nil {
		return err
	}
	result := r.DB.WithContext(ctx).Model(&models.NotificationTriggerModel{}).
		Where("id = ? AND carrier_id = ?", trigger.ID, trigger.CarrierID).
		Updates(map[string]any{
			"trigger_type":   triggerModel.TriggerType,
			"trigger_config": triggerModel.TriggerConfig,
			"is_active":      triggerModel.IsActive,
			"updated_at":     triggerModel.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update trigger %s: %w", trigger.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("trigger " + trigger.ID)
	}
	return nil
}

func (r *DefaultTriggerRepository) GetTrigger(ctx context.Context, triggerID string) (*domain.Trigger, error) {
	var triggerModel models.NotificationTriggerModel
	if err := r.DB.WithContext(ctx).First(&triggerModel, "id = ?", triggerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("trigger " + triggerID)
		}
		return nil, fmt.Errorf("failed to get trigger %s: %w", triggerID, err)
	}
	return mappers.ToDomainTrigger(&triggerModel)
}

func (r *DefaultTriggerRepository) ListTriggersByCarrier(ctx context.Context, carrierID string) ([]*domain.Trigger, error) {
	var triggerModels []models.NotificationTriggerModel
	if err := r.DB.WithContext(ctx).
		Where("carrier_id = ?", carrierID).
		Order("created_at DESC").
		Find(&triggerModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list triggers of %s: %w", carrierID, err)
	}

	triggers := make([]*domain.Trigger, 0, len(triggerModels))
	for i := range triggerModels {
		trigger, err := mappers.ToDomainTrigger(&triggerModels[i])
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, trigger)
	}
	return triggers, nil
}

func (r *DefaultTriggerRepository) ListActiveTriggers(ctx context.Context) ([]*domain.Trigger, []error, error) {
	var triggerModels []models.NotificationTriggerModel
	if err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&triggerModels).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list active triggers: %w", err)
	}

	var decodeErrs []error
	triggers := make([]*domain.Trigger, 0, len(triggerModels))
	for i := range triggerModels {
		trigger, err := mappers.ToDomainTrigger(&triggerModels[i])
		if err != nil {
			decodeErrs = append(decodeErrs, err)
			continue
		}
		triggers = append(triggers, trigger)
	}
	return triggers, decodeErrs, nil
}

func (r *DefaultTriggerRepository) DeleteTrigger(ctx context.Context, triggerID, carrierID string) error {
	result := r.DB.WithContext(ctx).
		Where("id = ? AND carrier_id = ?", triggerID, carrierID).
		Delete(&models.NotificationTriggerModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete trigger %s: %w", triggerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("trigger " + triggerID)
	}
	return nil
}
