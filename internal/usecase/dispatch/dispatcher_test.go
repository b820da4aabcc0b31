package dispatch

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
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/prometheus/client_golang/prometheus"
)

var received = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// memoryLog держит мьютекс на время deliver, как транзакция держит
// конфликтующую вставку до commit или rollback.
type memoryLog struct {
	mu      sync.Mutex
	entries map[string]*domain.NotificationLog
}

func newMemoryLog() *memoryLog {
	return &memoryLog{entries: map[string]*domain.NotificationLog{}}
}

func (l *memoryLog) RecordOnce(_ context.Context, entry *domain.NotificationLog, deliver func() error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := entry.TriggerID + "|" + entry.BidNumber
	if _, ok := l.entries[key]; ok {
		return false, nil
	}
	if err := deliver(); err != nil {
		return false, err
	}
	l.entries[key] = entry
	return true, nil
}

func (l *memoryLog) CountUniqueBidsNotified(_ context.Context, carrierID string, _ time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bids := map[string]struct{}{}
	for _, e := range l.entries {
		if e.CarrierID == carrierID {
			bids[e.BidNumber] = struct{}{}
		}
	}
	return int64(len(bids)), nil
}

type recordingDelivery struct {
	mu       sync.Mutex
	sent     []domain.Notification
	failures int
}

func (d *recordingDelivery) Send(_ context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failures > 0 {
		d.failures--
		return errors.New("push gateway unavailable")
	}
	d.sent = append(d.sent, n)
	return nil
}

func newTestDispatcher(log *memoryLog, delivery domain.Delivery) *Dispatcher {
	return NewDispatcher(log, delivery, fixedClock{now: received.Add(10 * time.Minute)},
		metrics.NewAuctionMetricsWithRegistry(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testAuction() *domain.Auction {
	return &domain.Auction{
		BidNumber:     "12345",
		DistanceMiles: 925,
		Stops:         []string{"Dallas, TX", "Chicago, IL"},
		Tag:           "REEFER",
		ReceivedAt:    received,
	}
}

func testMatches() []domain.Match {
	return []domain.Match{
		{CarrierID: "c1", TriggerID: "t1", TriggerType: domain.TriggerLaneMatch, BidNumber: "12345"},
		{CarrierID: "c2", TriggerID: "t2", TriggerType: domain.TriggerBackhaul, BidNumber: "12345"},
	}
}

func TestDispatchTwiceSendsOnce(t *testing.T) {
	log := newMemoryLog()
	delivery := &recordingDelivery{}
	d := newTestDispatcher(log, delivery)

	first := d.Dispatch(context.Background(), testAuction(), testMatches())
	check.Equal(t, Report{Sent: 2}, first)

	second := d.Dispatch(context.Background(), testAuction(), testMatches())
	check.Equal(t, Report{Skipped: 2}, second)
	check.Equal(t, 2, len(delivery.sent))

	n := delivery.sent[0]
	check.Equal(t, "Lane Match", n.Title)
	check.Equal(t, "Load 12345: Dallas, TX -> Chicago, IL, 925 mi, REEFER. Bidding closes in 15 min.", n.Message)
	check.Equal(t, received.Add(domain.AuctionTTL), n.ExpiresAt)
	check.Equal(t, "Backhaul Opportunity", delivery.sent[1].Title)
}

func TestDispatchConcurrentPasses(t *testing.T) {
	log := newMemoryLog()
	delivery := &recordingDelivery{}
	d := newTestDispatcher(log, delivery)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), testAuction(), testMatches())
		}()
	}
	wg.Wait()

	check.Equal(t, 2, len(delivery.sent))
	count, err := log.CountUniqueBidsNotified(context.Background(), "c1", received)
	assert.NoError(t, err)
	check.Equal(t, int64(1), count)
}

func TestDispatchFailedDeliveryIsRetried(t *testing.T) {
	log := newMemoryLog()
	delivery := &recordingDelivery{failures: 1}
	d := newTestDispatcher(log, delivery)

	first := d.Dispatch(context.Background(), testAuction(), testMatches()[:1])
	check.Equal(t, Report{Failed: 1}, first)
	check.Equal(t, 0, len(log.entries))

	second := d.Dispatch(context.Background(), testAuction(), testMatches()[:1])
	check.Equal(t, Report{Sent: 1}, second)
	check.Equal(t, 1, len(delivery.sent))
}
