package bidding

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// store держит аукционы и ставки в памяти; guard вызывается под мьютексом,
// как под блокировкой строки аукциона в postgres.
type store struct {
	mu       sync.Mutex
	auctions map[string]*domain.Auction
	awarded  map[string]bool
	bids     map[string]*domain.Bid // key: bidNumber/carrierID
}

func newStore() *store {
	return &store{
		auctions: map[string]*domain.Auction{},
		awarded:  map[string]bool{},
		bids:     map[string]*domain.Bid{},
	}
}

func (s *store) addAuction(a *domain.Auction) {
	s.mu.Lock()
	s.auctions[a.BidNumber] = a
	s.mu.Unlock()
}

func (s *store) CreateAuction(_ context.Context, a *domain.Auction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auctions[a.BidNumber]; ok {
		return false, nil
	}
	s.auctions[a.BidNumber] = a
	return true, nil
}

func (s *store) GetAuction(_ context.Context, bidNumber string) (*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[bidNumber]
	if !ok {
		return nil, domain.NotFound("auction")
	}
	return a, nil
}

func (s *store) ListActiveAuctions(context.Context, time.Time, domain.AuctionFilter) ([]*domain.Auction, error) {
	return nil, nil
}

func (s *store) ListUnmatched(context.Context, time.Time, int) ([]*domain.Auction, error) {
	return nil, nil
}

func (s *store) MarkMatched(context.Context, string, time.Time) error { return nil }

func (s *store) ArchiveExpired(context.Context, time.Time, time.Time, int) (int64, error) {
	return 0, nil
}

func (s *store) UpsertBid(_ context.Context, bid *domain.Bid, guard domain.BidGuard) (*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[bid.BidNumber]
	if !ok {
		return nil, domain.NotFound("auction")
	}
	if err := guard(&domain.AuctionLock{Auction: a, Awarded: s.awarded[bid.BidNumber]}); err != nil {
		return nil, err
	}
	key := bid.BidNumber + "/" + bid.CarrierID
	if existing, ok := s.bids[key]; ok {
		existing.AmountCents = bid.AmountCents
		existing.Notes = bid.Notes
		existing.UpdatedAt = bid.UpdatedAt
		cp := *existing
		return &cp, nil
	}
	cp := *bid
	s.bids[key] = &cp
	out := cp
	return &out, nil
}

func (s *store) DeleteBid(_ context.Context, bidID, carrierID string, guard domain.BidGuard) (*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, b := range s.bids {
		if b.ID != bidID || b.CarrierID != carrierID {
			continue
		}
		lock := &domain.AuctionLock{Auction: s.auctions[b.BidNumber], Awarded: s.awarded[b.BidNumber]}
		if err := guard(lock); err != nil {
			return nil, err
		}
		delete(s.bids, key)
		return b, nil
	}
	return nil, domain.NotFound("bid")
}

func (s *store) GetBid(_ context.Context, bidNumber, carrierID string) (*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[bidNumber+"/"+carrierID]
	if !ok {
		return nil, domain.NotFound("bid")
	}
	cp := *b
	return &cp, nil
}

func (s *store) ListBidsForAuction(_ context.Context, bidNumber string) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Bid
	for _, b := range s.bids {
		if b.BidNumber == bidNumber {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountCents != out[j].AmountCents {
			return out[i].AmountCents < out[j].AmountCents
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *store) ListBidsByCarrier(_ context.Context, carrierID string, _, _ int) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Bid
	for _, b := range s.bids {
		if b.CarrierID == carrierID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProfiles struct {
	missing map[string][]string
}

func (p *fakeProfiles) CheckProfile(_ context.Context, carrierID string) (*domain.ProfileCompleteness, error) {
	missing := p.missing[carrierID]
	return &domain.ProfileCompleteness{Complete: len(missing) == 0, MissingFields: missing}, nil
}

type recordingEventLogger struct {
	mu     sync.Mutex
	events []logger.BidEvent
}

func (l *recordingEventLogger) LogBidEvent(_ context.Context, event logger.BidEvent) error {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
	return nil
}

func (l *recordingEventLogger) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.EventType)
	}
	return out
}
