package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainTrigger(model *models.NotificationTriggerModel) (*domain.Trigger, error) {
	rule, err := domain.DecodeTriggerRule(domain.TriggerType(model.TriggerType), model.TriggerConfig)
	if err != nil {
		return nil, fmt.Errorf("trigger %s: %w", model.ID, err)
	}
	return &domain.Trigger{
		ID:        model.ID,
		CarrierID: model.CarrierID,
		Rule:      rule,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func ToGORMTrigger(trigger *domain.Trigger) (*models.NotificationTriggerModel, error) {
	config, err := json.Marshal(trigger.Rule)
	if err != nil {
		return nil, fmt.Errorf("encode trigger config: %w", err)
	}
	return &models.NotificationTriggerModel{
		ID:            trigger.ID,
		CarrierID:     trigger.CarrierID,
		TriggerType:   string(trigger.Rule.Type()),
		TriggerConfig: datatypes.JSON(config),
		IsActive:      trigger.IsActive,
		CreatedAt:     trigger.CreatedAt,
		UpdatedAt:     trigger.UpdatedAt,
	}, nil
}

func ToDomainCarrierContact(model *models.CarrierProfileModel) *domain.CarrierContact {
	return &domain.CarrierContact{
		CarrierID:   model.CarrierID,
		LegalName:   model.LegalName,
		CompanyName: derefString(model.CompanyName),
		Phone:       derefString(model.Phone),
		ContactName: derefString(model.ContactName),
		Email:       derefString(model.Email),
	}
}
