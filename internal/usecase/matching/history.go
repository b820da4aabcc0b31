package matching

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

// deliveryHistory loads a carrier's recent deliveries at most once per pass,
// and only for carriers that own a backhaul trigger.
type deliveryHistory struct {
	awardRepo domain.AwardRepository
	since     time.Time
	byCarrier map[string][]domain.RecentDelivery
}

func newDeliveryHistory(awardRepo domain.AwardRepository, now time.Time, lookback time.Duration) *deliveryHistory {
	return &deliveryHistory{
		awardRepo: awardRepo,
		since:     now.Add(-lookback),
		byCarrier: make(map[string][]domain.RecentDelivery),
	}
}

func (h *deliveryHistory) forCarrier(ctx context.Context, carrierID string) ([]domain.RecentDelivery, error) {
	if deliveries, ok := h.byCarrier[carrierID]; ok {
		return deliveries, nil
	}
	deliveries, err := h.awardRepo.RecentDeliveries(ctx, carrierID, h.since)
	if err != nil {
		return nil, err
	}
	h.byCarrier[carrierID] = deliveries
	return deliveries, nil
}

// favoriteRoutes caches the stops of favorite auctions for one pass.
// Unknown bid numbers are remembered as missing.
type favoriteRoutes struct {
	routes RouteLookup
	stops  map[string][]string
}

func newFavoriteRoutes(routes RouteLookup) *favoriteRoutes {
	return &favoriteRoutes{routes: routes, stops: make(map[string][]string)}
}

func (f *favoriteRoutes) load(ctx context.Context, bidNumbers []string) (map[string][]string, error) {
	out := make(map[string][]string, len(bidNumbers))
	for _, bidNumber := range bidNumbers {
		stops, ok := f.stops[bidNumber]
		if !ok {
			auction, err := f.routes.GetAuction(ctx, bidNumber)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				stops = nil
			case err != nil:
				return nil, err
			default:
				stops = auction.Stops
			}
			f.stops[bidNumber] = stops
		}
		if len(stops) > 0 {
			out[bidNumber] = stops
		}
	}
	return out, nil
}
