package auction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
	"github.com/LavaJover/freight-auction-service/internal/usecase/dispatch"
	auctiondto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/auction"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/prometheus/client_golang/prometheus"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memoryAuctions struct {
	mu           sync.Mutex
	auctions     map[string]*domain.Auction
	order        []string
	closedBefore time.Time
}

func newMemoryAuctions() *memoryAuctions {
	return &memoryAuctions{auctions: map[string]*domain.Auction{}}
}

func (m *memoryAuctions) CreateAuction(_ context.Context, a *domain.Auction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.auctions[a.BidNumber]; ok {
		return false, nil
	}
	m.auctions[a.BidNumber] = a
	m.order = append(m.order, a.BidNumber)
	return true, nil
}

func (m *memoryAuctions) GetAuction(_ context.Context, bidNumber string) (*domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.auctions[bidNumber]
	if !ok {
		return nil, domain.NotFound("auction")
	}
	return a, nil
}

func (m *memoryAuctions) ListActiveAuctions(_ context.Context, now time.Time, _ domain.AuctionFilter) ([]*domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Auction
	for _, bn := range m.order {
		if a := m.auctions[bn]; a.IsOpen(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAuctions) ListUnmatched(_ context.Context, now time.Time, limit int) ([]*domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Auction
	for _, bn := range m.order {
		a := m.auctions[bn]
		if a.MatchedAt == nil && a.IsOpen(now) && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAuctions) MarkMatched(_ context.Context, bidNumber string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auctions[bidNumber].MatchedAt = &at
	return nil
}

func (m *memoryAuctions) ArchiveExpired(_ context.Context, closedBefore, archivedAt time.Time, limit int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedBefore = closedBefore
	var n int64
	for _, a := range m.auctions {
		if a.ArchivedAt == nil && a.ExpiresAt().Before(closedBefore) && int(n) < limit {
			at := archivedAt
			a.ArchivedAt = &at
			n++
		}
	}
	return n, nil
}

type stubMatcher struct {
	calls         int
	deadlineCalls int
	err           error
}

// MatchDeadlines отдаёт совпадение только аукционам, которым осталось не
// больше пяти минут.
func (s *stubMatcher) MatchDeadlines(_ context.Context, a *domain.Auction, now time.Time) ([]domain.Match, error) {
	s.deadlineCalls++
	if a.TimeLeft(now) > 5*time.Minute {
		return nil, nil
	}
	return []domain.Match{{CarrierID: "c1", TriggerID: "deadline", TriggerType: domain.TriggerDeadline, BidNumber: a.BidNumber}}, nil
}

func (s *stubMatcher) Match(_ context.Context, a *domain.Auction, _ time.Time) ([]domain.Match, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Match{{CarrierID: "c1", TriggerID: "t1", TriggerType: domain.TriggerLaneMatch, BidNumber: a.BidNumber}}, nil
}

type stubDispatcher struct {
	reports []dispatch.Report
	calls   int
}

func (s *stubDispatcher) Dispatch(context.Context, *domain.Auction, []domain.Match) dispatch.Report {
	s.calls++
	if len(s.reports) == 0 {
		return dispatch.Report{Sent: 1}
	}
	r := s.reports[0]
	s.reports = s.reports[1:]
	return r
}

func newTestUsecase(repo *memoryAuctions, m Matcher, d Dispatcher, now time.Time) *DefaultAuctionUsecase {
	return NewDefaultAuctionUsecase(repo, m, d, fixedClock{now: now},
		metrics.NewAuctionMetricsWithRegistry(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIngestAuctionIsIdempotent(t *testing.T) {
	repo := newMemoryAuctions()
	matcher := &stubMatcher{}
	dispatcher := &stubDispatcher{}
	uc := newTestUsecase(repo, matcher, dispatcher, t0)

	input := &auctiondto.IngestAuctionInput{
		BidNumber:     " 12345 ",
		DistanceMiles: 925,
		Stops:         []string{"Dallas, TX", " ", "Chicago, IL"},
		SourceChannel: "email",
	}
	out, err := uc.IngestAuction(context.Background(), input)
	assert.NoError(t, err)
	check.True(t, out.Created)
	check.Equal(t, "12345", out.Auction.BidNumber)
	check.Equal(t, []string{"Dallas, TX", "Chicago, IL"}, out.Auction.Stops)
	check.Equal(t, t0.Add(domain.AuctionTTL), out.Auction.ExpiresAt())
	check.NotNil(t, out.Auction.MatchedAt)

	again, err := uc.IngestAuction(context.Background(), input)
	assert.NoError(t, err)
	check.False(t, again.Created)
	check.Equal(t, 1, matcher.calls)
	check.Equal(t, 1, dispatcher.calls)
}

func TestIngestAuctionValidation(t *testing.T) {
	uc := newTestUsecase(newMemoryAuctions(), &stubMatcher{}, &stubDispatcher{}, t0)

	_, err := uc.IngestAuction(context.Background(), &auctiondto.IngestAuctionInput{})
	check.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = uc.IngestAuction(context.Background(), &auctiondto.IngestAuctionInput{BidNumber: "1", DistanceMiles: -5})
	check.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestIngestKeepsAuctionWhenMatchingFails(t *testing.T) {
	repo := newMemoryAuctions()
	uc := newTestUsecase(repo, &stubMatcher{err: errors.New("triggers unavailable")}, &stubDispatcher{}, t0)

	out, err := uc.IngestAuction(context.Background(), &auctiondto.IngestAuctionInput{BidNumber: "12345"})
	assert.NoError(t, err)
	check.True(t, out.Created)
	check.Nil(t, out.Auction.MatchedAt)
}

func TestBacklogRetriesFailedDeliveries(t *testing.T) {
	repo := newMemoryAuctions()
	dispatcher := &stubDispatcher{reports: []dispatch.Report{{Failed: 1}, {Sent: 1}}}
	uc := newTestUsecase(repo, &stubMatcher{}, dispatcher, t0.Add(time.Minute))

	received := t0
	_, err := uc.IngestAuction(context.Background(), &auctiondto.IngestAuctionInput{BidNumber: "12345", ReceivedAt: &received})
	assert.NoError(t, err)
	auction, _ := repo.GetAuction(context.Background(), "12345")
	check.Nil(t, auction.MatchedAt)

	report, err := uc.ProcessMatchBacklog(context.Background(), 10)
	assert.NoError(t, err)
	check.Equal(t, auctiondto.BacklogReport{Processed: 1, Sent: 1}, *report)
	check.NotNil(t, auction.MatchedAt)

	report, err = uc.ProcessMatchBacklog(context.Background(), 10)
	assert.NoError(t, err)
	check.Equal(t, 0, report.Processed)
}

func TestArchiveExpired(t *testing.T) {
	repo := newMemoryAuctions()
	now := t0.Add(48 * time.Hour)
	uc := newTestUsecase(repo, &stubMatcher{}, &stubDispatcher{}, now)

	old, recent := t0, now.Add(-time.Hour)
	_, err := uc.IngestAuction(context.Background(), &auctiondto.IngestAuctionInput{BidNumber: "old", ReceivedAt: &old})
	assert.NoError(t, err)
	_, err = uc.IngestAuction(context.Background(), &auctiondto.IngestAuctionInput{BidNumber: "recent", ReceivedAt: &recent})
	assert.NoError(t, err)

	n, err := uc.ArchiveExpired(context.Background(), 24*time.Hour, 100)
	assert.NoError(t, err)
	check.Equal(t, int64(1), n)
	check.Equal(t, now.Add(-24*time.Hour), repo.closedBefore)

	a, _ := repo.GetAuction(context.Background(), "old")
	check.True(t, a.IsArchived())
	// архивирование не меняет статус
	check.Equal(t, domain.AuctionExpired, a.Status(now))
}

func TestProcessDeadlines(t *testing.T) {
	now := t0.Add(22 * time.Minute)
	repo := newMemoryAuctions()
	for _, a := range []*domain.Auction{
		{BidNumber: "closing", ReceivedAt: t0, Stops: []string{"Dallas, TX", "Chicago, IL"}},
		{BidNumber: "fresh", ReceivedAt: now.Add(-time.Minute), Stops: []string{"Dallas, TX", "Chicago, IL"}},
		{BidNumber: "expired", ReceivedAt: t0.Add(-time.Hour), Stops: []string{"Dallas, TX", "Chicago, IL"}},
	} {
		_, err := repo.CreateAuction(context.Background(), a)
		assert.NoError(t, err)
	}
	matcher := &stubMatcher{}
	dispatcher := &stubDispatcher{}
	uc := newTestUsecase(repo, matcher, dispatcher, now)

	report, err := uc.ProcessDeadlines(context.Background(), 10)
	assert.NoError(t, err)
	check.Equal(t, 2, report.Processed)
	check.Equal(t, 2, matcher.deadlineCalls)
	check.Equal(t, 1, dispatcher.calls)
	check.Equal(t, 1, report.Sent)
	check.Equal(t, 0, matcher.calls)
	// matched_at не трогаем
	closing, _ := repo.GetAuction(context.Background(), "closing")
	check.Nil(t, closing.MatchedAt)
}
