package matching

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
)

// RouteLookup resolves a favorite bid number to its auction.
type RouteLookup interface {
	GetAuction(ctx context.Context, bidNumber string) (*domain.Auction, error)
}

// Engine decides which carriers should hear about a load. It is stateless
// between passes; each Match call reads the active triggers afresh.
type Engine struct {
	triggerRepo domain.TriggerRepository
	awardRepo   domain.AwardRepository
	routes      RouteLookup
	metrics     *metrics.AuctionMetrics
	logger      *slog.Logger
}

func NewEngine(
	triggerRepo domain.TriggerRepository,
	awardRepo domain.AwardRepository,
	routes RouteLookup,
	metrics *metrics.AuctionMetrics,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		triggerRepo: triggerRepo,
		awardRepo:   awardRepo,
		routes:      routes,
		metrics:     metrics,
		logger:      logger,
	}
}

// Match evaluates every active trigger against the auction. Expired auctions
// match nothing. A trigger that cannot be decoded or evaluated is logged and
// skipped.
func (e *Engine) Match(ctx context.Context, auction *domain.Auction, now time.Time) ([]domain.Match, error) {
	return e.match(ctx, auction, now, func(*domain.Trigger) bool { return true })
}

// MatchDeadlines evaluates only deadline_approaching triggers. The deadline
// sweep calls it repeatedly while the auction is open.
func (e *Engine) MatchDeadlines(ctx context.Context, auction *domain.Auction, now time.Time) ([]domain.Match, error) {
	return e.match(ctx, auction, now, func(t *domain.Trigger) bool {
		return t.Type() == domain.TriggerDeadline
	})
}

func (e *Engine) match(ctx context.Context, auction *domain.Auction, now time.Time, include func(*domain.Trigger) bool) ([]domain.Match, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordMatchPassDuration(time.Since(start).Seconds())
	}()

	if !auction.IsOpen(now) {
		return nil, nil
	}

	triggers, decodeErrs, err := e.triggerRepo.ListActiveTriggers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load triggers: %w", err)
	}
	for _, decodeErr := range decodeErrs {
		e.metrics.RecordTriggerDecodeError()
		e.logger.Warn("skipping undecodable trigger", "error", decodeErr)
	}

	cache := &passCache{
		history:   newDeliveryHistory(e.awardRepo, now, maxBackhaulLookback(triggers)),
		favorites: newFavoriteRoutes(e.routes),
	}

	var matches []domain.Match
	seen := make(map[string]struct{})
	for _, trigger := range triggers {
		if !trigger.IsActive || !include(trigger) {
			continue
		}
		if !trigger.Rule.Filters().Allow(auction) {
			continue
		}
		ok, err := e.evaluate(ctx, trigger, auction, cache, now)
		if err != nil {
			e.logger.Warn("trigger evaluation failed",
				"trigger_id", trigger.ID,
				"carrier_id", trigger.CarrierID,
				"bid_number", auction.BidNumber,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		key := trigger.CarrierID + "|" + trigger.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		matches = append(matches, domain.Match{
			CarrierID:   trigger.CarrierID,
			TriggerID:   trigger.ID,
			TriggerType: trigger.Type(),
			BidNumber:   auction.BidNumber,
		})
		e.metrics.RecordMatch(string(trigger.Type()))
	}

	e.logger.Debug("match pass finished",
		"bid_number", auction.BidNumber,
		"triggers", len(triggers),
		"matches", len(matches),
	)
	return matches, nil
}

// passCache holds lookups cached for the duration of one Match call.
type passCache struct {
	history   *deliveryHistory
	favorites *favoriteRoutes
}

func (e *Engine) evaluate(ctx context.Context, trigger *domain.Trigger, auction *domain.Auction, cache *passCache, now time.Time) (bool, error) {
	switch rule := trigger.Rule.(type) {
	case domain.LaneMatchRule:
		return matchLane(rule, auction), nil
	case domain.StatePreferenceRule:
		return matchStates(rule, auction), nil
	case domain.DistanceRangeRule:
		return matchDistance(rule, auction), nil
	case domain.EquipmentRule:
		return matchEquipment(rule, auction), nil
	case domain.DeadlineRule:
		return matchDeadline(rule, auction, now), nil
	case domain.ExactMatchRule:
		routes, err := cache.favorites.load(ctx, rule.FavoriteBidNumbers)
		if err != nil {
			return false, err
		}
		return matchExact(rule, auction, routes), nil
	case domain.BackhaulRule:
		deliveries, err := cache.history.forCarrier(ctx, trigger.CarrierID)
		if err != nil {
			return false, err
		}
		return matchBackhaul(rule, auction, deliveries, now), nil
	default:
		return false, fmt.Errorf("no evaluator for trigger type %T", trigger.Rule)
	}
}

func maxBackhaulLookback(triggers []*domain.Trigger) time.Duration {
	var longest time.Duration
	for _, t := range triggers {
		if rule, ok := t.Rule.(domain.BackhaulRule); ok && rule.Lookback() > longest {
			longest = rule.Lookback()
		}
	}
	return longest
}
