package triggers

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	triggersdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/triggers"
	"github.com/google/uuid"
)

type TriggerUsecase interface {
	CreateTrigger(ctx context.Context, input *triggersdto.CreateTriggerInput) (*domain.Trigger, error)
	UpdateTrigger(ctx context.Context, input *triggersdto.UpdateTriggerInput) (*domain.Trigger, error)
	ListTriggers(ctx context.Context, carrierID string) ([]*domain.Trigger, error)
	DeleteTrigger(ctx context.Context, triggerID, carrierID string) error
	NotificationStats(ctx context.Context, carrierID string, days int) (*triggersdto.NotificationStats, error)
}

type DefaultTriggerUsecase struct {
	triggerRepo      domain.TriggerRepository
	notificationLogs domain.NotificationLogRepository
	clock            domain.Clock
}

func NewDefaultTriggerUsecase(
	triggerRepo domain.TriggerRepository,
	notificationLogs domain.NotificationLogRepository,
	clock domain.Clock,
) *DefaultTriggerUsecase {
	return &DefaultTriggerUsecase{
		triggerRepo:      triggerRepo,
		notificationLogs: notificationLogs,
		clock:            clock,
	}
}

const (
	DefaultStatsDays = 7
	MaxStatsDays     = 90
)

// NotificationStats считает, о скольких разных лотах перевозчику пришли
// уведомления за последние days дней.
func (uc *DefaultTriggerUsecase) NotificationStats(ctx context.Context, carrierID string, days int) (*triggersdto.NotificationStats, error) {
	if carrierID == "" {
		return nil, domain.InvalidArgument("carrier id is required")
	}
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 0 || days > MaxStatsDays {
		return nil, domain.InvalidArgument("days must be between 1 and %d", MaxStatsDays)
	}

	since := uc.clock.Now().Add(-time.Duration(days) * 24 * time.Hour)
	count, err := uc.notificationLogs.CountUniqueBidsNotified(ctx, carrierID, since)
	if err != nil {
		return nil, err
	}
	return &triggersdto.NotificationStats{
		CarrierID:          carrierID,
		Since:              since,
		UniqueBidsNotified: count,
	}, nil
}

func (uc *DefaultTriggerUsecase) CreateTrigger(ctx context.Context, input *triggersdto.CreateTriggerInput) (*domain.Trigger, error) {
	if input.CarrierID == "" {
		return nil, domain.InvalidArgument("carrier id is required")
	}
	rule, err := decodeRule(input.TriggerType, input.TriggerConfig)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	trigger := &domain.Trigger{
		ID:        uuid.NewString(),
		CarrierID: input.CarrierID,
		Rule:      rule,
		IsActive:  input.IsActive == nil || *input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.triggerRepo.CreateTrigger(ctx, trigger); err != nil {
		return nil, err
	}
	slog.Info("trigger created", "trigger_id", trigger.ID, "carrier_id", trigger.CarrierID, "type", rule.Type())
	return trigger, nil
}

func (uc *DefaultTriggerUsecase) UpdateTrigger(ctx context.Context, input *triggersdto.UpdateTriggerInput) (*domain.Trigger, error) {
	if !validTriggerID(input.TriggerID) {
		return nil, domain.NotFound("trigger " + input.TriggerID)
	}
	trigger, err := uc.triggerRepo.GetTrigger(ctx, input.TriggerID)
	if err != nil {
		return nil, err
	}
	// чужой триггер выглядит как несуществующий
	if trigger.CarrierID != input.CarrierID {
		return nil, domain.NotFound("trigger " + input.TriggerID)
	}

	if len(input.TriggerConfig) > 0 {
		triggerType := input.TriggerType
		if triggerType == "" {
			triggerType = string(trigger.Type())
		}
		rule, err := decodeRule(triggerType, input.TriggerConfig)
		if err != nil {
			return nil, err
		}
		trigger.Rule = rule
	}
	if input.IsActive != nil {
		trigger.IsActive = *input.IsActive
	}
	trigger.UpdatedAt = uc.clock.Now()

	if err := uc.triggerRepo.UpdateTrigger(ctx, trigger); err != nil {
		return nil, err
	}
	return trigger, nil
}

func (uc *DefaultTriggerUsecase) ListTriggers(ctx context.Context, carrierID string) ([]*domain.Trigger, error) {
	return uc.triggerRepo.ListTriggersByCarrier(ctx, carrierID)
}

func (uc *DefaultTriggerUsecase) DeleteTrigger(ctx context.Context, triggerID, carrierID string) error {
	if !validTriggerID(triggerID) {
		return domain.NotFound("trigger " + triggerID)
	}
	return uc.triggerRepo.DeleteTrigger(ctx, triggerID, carrierID)
}

func validTriggerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func decodeRule(triggerType string, config []byte) (domain.TriggerRule, error) {
	if len(config) == 0 {
		config = []byte("{}")
	}
	rule, err := domain.DecodeTriggerRule(domain.TriggerType(triggerType), config)
	if err != nil {
		return nil, domain.InvalidArgument("%s", err.Error())
	}
	if err := rule.Validate(); err != nil {
		return nil, domain.InvalidArgument("%s", err.Error())
	}
	return rule, nil
}
