package awarding

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// awardStore повторяет ограничения таблицы auction_awards: одна ревизия 1
// на аукцион и не больше одной текущей строки.
type awardStore struct {
	mu       sync.Mutex
	auctions map[string]bool
	bids     map[string]map[string]int64 // bidNumber -> carrierID -> cents
	awards   map[string][]*domain.Award
}

func newAwardStore() *awardStore {
	return &awardStore{
		auctions: map[string]bool{},
		bids:     map[string]map[string]int64{},
		awards:   map[string][]*domain.Award{},
	}
}

func (s *awardStore) addBid(bidNumber, carrierID string, cents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[bidNumber] = true
	if s.bids[bidNumber] == nil {
		s.bids[bidNumber] = map[string]int64{}
	}
	s.bids[bidNumber][carrierID] = cents
}

func (s *awardStore) winnerAmount(bidNumber, carrierID string) (int64, error) {
	cents, ok := s.bids[bidNumber][carrierID]
	if !ok {
		return 0, domain.NewError(domain.KindWinnerHasNoBid, bidNumber, domain.ErrWinnerHasNoBid.Message)
	}
	return cents, nil
}

func (s *awardStore) CreateAward(_ context.Context, award *domain.Award) (*domain.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.auctions[award.BidNumber] {
		return nil, domain.NotFound("auction")
	}
	if len(s.awards[award.BidNumber]) > 0 {
		return nil, domain.NewError(domain.KindAlreadyAwarded, award.BidNumber, domain.ErrAlreadyAwarded.Message)
	}
	cents, err := s.winnerAmount(award.BidNumber, award.WinnerCarrierID)
	if err != nil {
		return nil, err
	}
	cp := *award
	cp.Revision = 1
	cp.Kind = domain.AwardInitial
	cp.WinnerAmountCents = cents
	s.awards[award.BidNumber] = append(s.awards[award.BidNumber], &cp)
	out := cp
	return &out, nil
}

func (s *awardStore) AppendAward(_ context.Context, award *domain.Award) (*domain.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.awards[award.BidNumber]
	if len(history) == 0 {
		return nil, domain.NewError(domain.KindNotFound, award.BidNumber, "auction has not been awarded yet")
	}
	current := history[len(history)-1]
	cents, err := s.winnerAmount(award.BidNumber, award.WinnerCarrierID)
	if err != nil {
		return nil, err
	}
	if current.WinnerCarrierID == award.WinnerCarrierID {
		out := *current
		return &out, nil
	}
	at := award.AwardedAt
	current.SupersededAt = &at

	cp := *award
	cp.Revision = current.Revision + 1
	cp.Kind = domain.AwardReAward
	cp.WinnerAmountCents = cents
	s.awards[award.BidNumber] = append(history, &cp)
	out := cp
	return &out, nil
}

func (s *awardStore) GetCurrentAward(_ context.Context, bidNumber string) (*domain.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.awards[bidNumber]
	if len(history) == 0 {
		return nil, domain.NewError(domain.KindNotFound, bidNumber, "auction has not been awarded yet")
	}
	out := *history[len(history)-1]
	return &out, nil
}

func (s *awardStore) GetAwardHistory(_ context.Context, bidNumber string) ([]*domain.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Award, 0, len(s.awards[bidNumber]))
	for _, a := range s.awards[bidNumber] {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *awardStore) ListCurrentAwardsForCarrier(_ context.Context, carrierID string) ([]*domain.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Award
	for _, history := range s.awards {
		current := history[len(history)-1]
		if current.WinnerCarrierID == carrierID {
			cp := *current
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *awardStore) RecentDeliveries(context.Context, string, time.Time) ([]domain.RecentDelivery, error) {
	return nil, nil
}

// Для publishAwarded нужен только ListBidsForAuction.
func (s *awardStore) UpsertBid(context.Context, *domain.Bid, domain.BidGuard) (*domain.Bid, error) {
	return nil, nil
}

func (s *awardStore) DeleteBid(context.Context, string, string, domain.BidGuard) (*domain.Bid, error) {
	return nil, nil
}

func (s *awardStore) GetBid(context.Context, string, string) (*domain.Bid, error) {
	return nil, domain.NotFound("bid")
}

func (s *awardStore) ListBidsForAuction(_ context.Context, bidNumber string) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Bid
	for carrierID, cents := range s.bids[bidNumber] {
		out = append(out, &domain.Bid{BidNumber: bidNumber, CarrierID: carrierID, AmountCents: cents})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AmountCents < out[j].AmountCents })
	return out, nil
}

func (s *awardStore) ListBidsByCarrier(context.Context, string, int, int) ([]*domain.Bid, error) {
	return nil, nil
}

type fakeDirectory struct{}

func (fakeDirectory) LookupCarrier(_ context.Context, carrierID string) (*domain.CarrierContact, error) {
	return &domain.CarrierContact{CarrierID: carrierID, CompanyName: "Acme Freight"}, nil
}

type published struct {
	topic string
	key   string
	event any
}

type chanPublisher struct {
	events chan published
}

func (p *chanPublisher) PublishJSON(_ context.Context, topic, key string, event any) error {
	p.events <- published{topic: topic, key: key, event: event}
	return nil
}
