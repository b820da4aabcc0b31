package triggers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	triggersdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/triggers"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memoryTriggers struct {
	byID map[string]*domain.Trigger
}

func (m *memoryTriggers) CreateTrigger(_ context.Context, t *domain.Trigger) error {
	m.byID[t.ID] = t
	return nil
}

func (m *memoryTriggers) UpdateTrigger(_ context.Context, t *domain.Trigger) error {
	m.byID[t.ID] = t
	return nil
}

func (m *memoryTriggers) GetTrigger(_ context.Context, id string) (*domain.Trigger, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.NotFound("trigger " + id)
	}
	cp := *t
	return &cp, nil
}

func (m *memoryTriggers) ListTriggersByCarrier(_ context.Context, carrierID string) ([]*domain.Trigger, error) {
	var out []*domain.Trigger
	for _, t := range m.byID {
		if t.CarrierID == carrierID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryTriggers) ListActiveTriggers(context.Context) ([]*domain.Trigger, []error, error) {
	return nil, nil, nil
}

func (m *memoryTriggers) DeleteTrigger(_ context.Context, id, carrierID string) error {
	t, ok := m.byID[id]
	if !ok || t.CarrierID != carrierID {
		return domain.NotFound("trigger " + id)
	}
	delete(m.byID, id)
	return nil
}

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type countingLog struct {
	carrierID string
	since     time.Time
	count     int64
}

func (l *countingLog) RecordOnce(context.Context, *domain.NotificationLog, func() error) (bool, error) {
	return false, nil
}

func (l *countingLog) CountUniqueBidsNotified(_ context.Context, carrierID string, since time.Time) (int64, error) {
	l.carrierID = carrierID
	l.since = since
	return l.count, nil
}

func newTestUsecase() (*DefaultTriggerUsecase, *memoryTriggers) {
	uc, repo, _ := newTestUsecaseWithLog()
	return uc, repo
}

func newTestUsecaseWithLog() (*DefaultTriggerUsecase, *memoryTriggers, *countingLog) {
	repo := &memoryTriggers{byID: map[string]*domain.Trigger{}}
	log := &countingLog{count: 3}
	return NewDefaultTriggerUsecase(repo, log, fixedClock{now: now}), repo, log
}

func TestCreateTrigger(t *testing.T) {
	uc, _ := newTestUsecase()

	trigger, err := uc.CreateTrigger(context.Background(), &triggersdto.CreateTriggerInput{
		CarrierID:     "c1",
		TriggerType:   "lane_match",
		TriggerConfig: json.RawMessage(`{"origin":"Dallas, TX"}`),
	})
	assert.NoError(t, err)
	check.True(t, trigger.IsActive)
	check.Equal(t, domain.TriggerLaneMatch, trigger.Type())
	check.Equal[domain.TriggerRule](t, domain.LaneMatchRule{Origin: "Dallas, TX"}, trigger.Rule)

	backhaul, err := uc.CreateTrigger(context.Background(), &triggersdto.CreateTriggerInput{CarrierID: "c1", TriggerType: "backhaul"})
	assert.NoError(t, err)
	check.Equal(t, domain.TriggerBackhaul, backhaul.Type())
}

func TestCreateTriggerRejectsInvalidRule(t *testing.T) {
	uc, _ := newTestUsecase()

	cases := []*triggersdto.CreateTriggerInput{
		{CarrierID: "c1", TriggerType: "price_drop", TriggerConfig: json.RawMessage(`{}`)},
		{CarrierID: "c1", TriggerType: "lane_match", TriggerConfig: json.RawMessage(`{}`)},
		{CarrierID: "c1", TriggerType: "distance_range", TriggerConfig: json.RawMessage(`{"min_miles":900,"max_miles":100}`)},
		{TriggerType: "equipment", TriggerConfig: json.RawMessage(`{"tags":["REEFER"]}`)},
	}
	for _, input := range cases {
		_, err := uc.CreateTrigger(context.Background(), input)
		check.True(t, errors.Is(err, domain.ErrInvalidArgument))
	}
}

func TestUpdateTrigger(t *testing.T) {
	uc, repo := newTestUsecase()
	created, err := uc.CreateTrigger(context.Background(), &triggersdto.CreateTriggerInput{
		CarrierID:     "c1",
		TriggerType:   "equipment",
		TriggerConfig: json.RawMessage(`{"tags":["REEFER"]}`),
	})
	assert.NoError(t, err)

	inactive := false
	updated, err := uc.UpdateTrigger(context.Background(), &triggersdto.UpdateTriggerInput{
		TriggerID:     created.ID,
		CarrierID:     "c1",
		TriggerConfig: json.RawMessage(`{"tags":["FLATBED","STEP DECK"]}`),
		IsActive:      &inactive,
	})
	assert.NoError(t, err)
	check.False(t, updated.IsActive)
	check.Equal[domain.TriggerRule](t, domain.EquipmentRule{Tags: []string{"FLATBED", "STEP DECK"}}, repo.byID[created.ID].Rule)

	_, err = uc.UpdateTrigger(context.Background(), &triggersdto.UpdateTriggerInput{TriggerID: created.ID, CarrierID: "c2", IsActive: &inactive})
	check.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteTriggerOwnership(t *testing.T) {
	uc, _ := newTestUsecase()
	created, err := uc.CreateTrigger(context.Background(), &triggersdto.CreateTriggerInput{
		CarrierID:     "c1",
		TriggerType:   "state_match",
		TriggerConfig: json.RawMessage(`{"origin_states":["TX"]}`),
	})
	assert.NoError(t, err)

	check.True(t, errors.Is(uc.DeleteTrigger(context.Background(), created.ID, "c2"), domain.ErrNotFound))
	check.NoError(t, uc.DeleteTrigger(context.Background(), created.ID, "c1"))

	list, err := uc.ListTriggers(context.Background(), "c1")
	assert.NoError(t, err)
	check.Equal(t, 0, len(list))
}

func TestMalformedTriggerIDIsNotFound(t *testing.T) {
	uc, _ := newTestUsecase()
	active := false

	_, err := uc.UpdateTrigger(context.Background(), &triggersdto.UpdateTriggerInput{TriggerID: "abc", CarrierID: "c1", IsActive: &active})
	check.True(t, errors.Is(err, domain.ErrNotFound))
	check.True(t, errors.Is(uc.DeleteTrigger(context.Background(), "abc", "c1"), domain.ErrNotFound))
}

func TestNotificationStats(t *testing.T) {
	uc, _, log := newTestUsecaseWithLog()

	stats, err := uc.NotificationStats(context.Background(), "c1", 0)
	assert.NoError(t, err)
	check.Equal(t, int64(3), stats.UniqueBidsNotified)
	check.Equal(t, "c1", log.carrierID)
	check.Equal(t, now.Add(-7*24*time.Hour), log.since)
	check.Equal(t, log.since, stats.Since)

	_, err = uc.NotificationStats(context.Background(), "c1", 30)
	assert.NoError(t, err)
	check.Equal(t, now.Add(-30*24*time.Hour), log.since)

	_, err = uc.NotificationStats(context.Background(), "c1", MaxStatsDays+1)
	check.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
