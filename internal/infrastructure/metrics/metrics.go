package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuctionMetrics содержит метрики аукционов, ставок и уведомлений
type AuctionMetrics struct {
	// Загрузки
	AuctionsIngestedTotal prometheus.CounterVec
	AuctionsArchivedTotal prometheus.Counter

	// Ставки
	BidsAcceptedTotal prometheus.CounterVec
	BidsRejectedTotal prometheus.CounterVec
	BidsCanceledTotal prometheus.Counter
	BidAmountCents    prometheus.HistogramVec

	// Award / re-award
	AwardsTotal        prometheus.CounterVec
	AwardRejectedTotal prometheus.CounterVec

	// Matching и доставка
	MatchesTotal             prometheus.CounterVec
	MatchPassDuration        prometheus.Histogram
	NotificationsTotal       prometheus.CounterVec
	TriggerDecodeErrorsTotal prometheus.Counter
}

func NewAuctionMetrics() *AuctionMetrics {
	return newAuctionMetrics(promauto.With(prometheus.DefaultRegisterer))
}

// NewAuctionMetricsWithRegistry нужен тестам, чтобы не конфликтовать с глобальным реестром
func NewAuctionMetricsWithRegistry(reg prometheus.Registerer) *AuctionMetrics {
	return newAuctionMetrics(promauto.With(reg))
}

func newAuctionMetrics(f promauto.Factory) *AuctionMetrics {
	return &AuctionMetrics{
		AuctionsIngestedTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctions_ingested_total",
				Help: "Number of load auctions received from feed sources",
			},
			[]string{"source_channel", "result"},
		),
		AuctionsArchivedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "auctions_archived_total",
				Help: "Number of expired auctions stamped as archived",
			},
		),

		BidsAcceptedTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bids_accepted_total",
				Help: "Number of carrier bids written to the ledger",
			},
			[]string{"tag"},
		),
		BidsRejectedTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bids_rejected_total",
				Help: "Number of carrier bid submissions rejected, by reason",
			},
			[]string{"reason"},
		),
		BidsCanceledTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bids_canceled_total",
				Help: "Number of bids withdrawn by carriers",
			},
		),
		BidAmountCents: *f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bid_amount_cents",
				Help:    "Distribution of accepted bid amounts in cents",
				Buckets: prometheus.ExponentialBuckets(10000, 2, 10), // $100, $200, $400...
			},
			[]string{"tag"},
		),

		AwardsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "awards_total",
				Help: "Number of award decisions recorded, by kind",
			},
			[]string{"kind"},
		),
		AwardRejectedTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "award_rejected_total",
				Help: "Number of award attempts rejected, by kind and reason",
			},
			[]string{"kind", "reason"},
		),

		MatchesTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trigger_matches_total",
				Help: "Number of trigger matches produced by the matching engine",
			},
			[]string{"trigger_type"},
		),
		MatchPassDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "match_pass_duration_seconds",
				Help:    "Time spent matching one auction against all active triggers",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
		),
		NotificationsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notification dispatch outcomes (sent, skipped, failed)",
			},
			[]string{"outcome"},
		),
		TriggerDecodeErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "trigger_decode_errors_total",
				Help: "Stored triggers skipped because their config could not be decoded",
			},
		),
	}
}

func (m *AuctionMetrics) RecordAuctionIngested(sourceChannel string, created bool) {
	result := "created"
	if !created {
		result = "duplicate"
	}
	m.AuctionsIngestedTotal.WithLabelValues(sourceChannel, result).Inc()
}

func (m *AuctionMetrics) RecordAuctionsArchived(n int64) {
	m.AuctionsArchivedTotal.Add(float64(n))
}

func (m *AuctionMetrics) RecordBidAccepted(tag string, amountCents int64) {
	m.BidsAcceptedTotal.WithLabelValues(tag).Inc()
	m.BidAmountCents.WithLabelValues(tag).Observe(float64(amountCents))
}

func (m *AuctionMetrics) RecordBidRejected(reason string) {
	m.BidsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *AuctionMetrics) RecordBidCanceled() {
	m.BidsCanceledTotal.Inc()
}

func (m *AuctionMetrics) RecordAward(kind string) {
	m.AwardsTotal.WithLabelValues(kind).Inc()
}

func (m *AuctionMetrics) RecordAwardRejected(kind, reason string) {
	m.AwardRejectedTotal.WithLabelValues(kind, reason).Inc()
}

func (m *AuctionMetrics) RecordMatch(triggerType string) {
	m.MatchesTotal.WithLabelValues(triggerType).Inc()
}

func (m *AuctionMetrics) RecordMatchPassDuration(seconds float64) {
	m.MatchPassDuration.Observe(seconds)
}

func (m *AuctionMetrics) RecordNotification(outcome string) {
	m.NotificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *AuctionMetrics) RecordTriggerDecodeError() {
	m.TriggerDecodeErrorsTotal.Inc()
}
