package matching

import (
	"strings"
	"time"
	"unicode"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

// Все заданные поля правила объединяются через AND, пустое поле - wildcard.

func matchLane(rule domain.LaneMatchRule, auction *domain.Auction) bool {
	return matchPlace(rule.Origin, auction.Origin()) &&
		matchPlace(rule.Destination, auction.Destination())
}

// matchPlace: двухбуквенный шаблон сравнивается только с кодом штата,
// более длинный ищется подстрокой без учёта регистра.
func matchPlace(want, stop string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	if stop == "" {
		return false
	}
	if isStateCode(want) {
		return strings.EqualFold(domain.StateCode(stop), want)
	}
	return strings.Contains(strings.ToUpper(stop), strings.ToUpper(want))
}

func isStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func matchStates(rule domain.StatePreferenceRule, auction *domain.Auction) bool {
	return stateIn(rule.OriginStates, auction.Origin()) &&
		stateIn(rule.DestinationStates, auction.Destination())
}

func stateIn(states []string, stop string) bool {
	if len(states) == 0 {
		return true
	}
	code := domain.StateCode(stop)
	if code == "" {
		return false
	}
	for _, s := range states {
		if strings.EqualFold(strings.TrimSpace(s), code) {
			return true
		}
	}
	return false
}

func matchDistance(rule domain.DistanceRangeRule, auction *domain.Auction) bool {
	if rule.MinMiles != nil && auction.DistanceMiles < *rule.MinMiles {
		return false
	}
	if rule.MaxMiles != nil && auction.DistanceMiles > *rule.MaxMiles {
		return false
	}
	return true
}

func matchEquipment(rule domain.EquipmentRule, auction *domain.Auction) bool {
	return domain.TagMatches(auction.Tag, rule.Tags)
}

func matchDeadline(rule domain.DeadlineRule, auction *domain.Auction, now time.Time) bool {
	return auction.IsOpen(now) && auction.TimeLeft(now) <= rule.Threshold()
}

// matchExact: тот же маршрут, что у одного из избранных лотов, остановка
// к остановке; при MatchesReverse также в обратном порядке.
func matchExact(rule domain.ExactMatchRule, auction *domain.Auction, favorites map[string][]string) bool {
	for _, bidNumber := range rule.FavoriteBidNumbers {
		if bidNumber == auction.BidNumber {
			continue
		}
		route, ok := favorites[bidNumber]
		if !ok {
			continue
		}
		if sameRoute(route, auction.Stops) {
			return true
		}
		if rule.MatchesReverse() && sameRoute(route, reversed(auction.Stops)) {
			return true
		}
	}
	return false
}

func sameRoute(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !similarCity(a[i], b[i]) {
			return false
		}
	}
	return true
}

func reversed(stops []string) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[len(stops)-1-i] = s
	}
	return out
}

func matchBackhaul(rule domain.BackhaulRule, auction *domain.Auction, deliveries []domain.RecentDelivery, now time.Time) bool {
	origin := auction.Origin()
	if origin == "" {
		return false
	}
	since := now.Add(-rule.Lookback())
	for _, d := range deliveries {
		if d.BidNumber == auction.BidNumber || d.AwardedAt.Before(since) {
			continue
		}
		if similarCity(origin, d.Destination) {
			return true
		}
	}
	return false
}
