package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

const (
	outcomeSent    = "sent"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

type Report struct {
	Sent    int
	Skipped int
	Failed  int
}

// Dispatcher delivers each match at most once per (trigger, bid number).
// There is no retry here: a failed delivery leaves no log row, so the next
// pass over the same auction tries again.
type Dispatcher struct {
	logRepo  domain.NotificationLogRepository
	delivery domain.Delivery
	clock    domain.Clock
	metrics  *metrics.AuctionMetrics
	logger   *slog.Logger
}

func NewDispatcher(
	logRepo domain.NotificationLogRepository,
	delivery domain.Delivery,
	clock domain.Clock,
	metrics *metrics.AuctionMetrics,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		logRepo:  logRepo,
		delivery: delivery,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, auction *domain.Auction, matches []domain.Match) Report {
	var report Report
	for _, match := range matches {
		now := d.clock.Now()
		n := buildNotification(auction, match, now)
		entry := &domain.NotificationLog{
			ID:        uuid.NewString(),
			TriggerID: match.TriggerID,
			CarrierID: match.CarrierID,
			BidNumber: match.BidNumber,
			Message:   n.Message,
			SentAt:    now,
		}

		sent, err := d.logRepo.RecordOnce(ctx, entry, func() error {
			return d.delivery.Send(ctx, n)
		})
		switch {
		case err != nil:
			report.Failed++
			d.metrics.RecordNotification(outcomeFailed)
			d.logger.Error("notification delivery failed",
				"carrier_id", match.CarrierID,
				"trigger_id", match.TriggerID,
				"bid_number", match.BidNumber,
				"error", err,
			)
		case sent:
			report.Sent++
			d.metrics.RecordNotification(outcomeSent)
		default:
			report.Skipped++
			d.metrics.RecordNotification(outcomeSkipped)
		}
	}

	if len(matches) > 0 {
		d.logger.Info("notifications dispatched",
			"bid_number", auction.BidNumber,
			"sent", report.Sent,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
	}
	return report
}

func buildNotification(auction *domain.Auction, match domain.Match, now time.Time) domain.Notification {
	return domain.Notification{
		CarrierID:   match.CarrierID,
		TriggerID:   match.TriggerID,
		TriggerType: string(match.TriggerType),
		BidNumber:   match.BidNumber,
		Title:       titleFor(match.TriggerType),
		Message:     messageFor(auction, match.TriggerType, now),
		ExpiresAt:   auction.ExpiresAt(),
	}
}

func titleFor(t domain.TriggerType) string {
	switch t {
	case domain.TriggerLaneMatch:
		return "Lane Match"
	case domain.TriggerStatePreference:
		return "State Match"
	case domain.TriggerDistanceRange:
		return "Load In Your Distance Range"
	case domain.TriggerEquipment:
		return "Equipment Match"
	case domain.TriggerBackhaul:
		return "Backhaul Opportunity"
	case domain.TriggerExactMatch:
		return "Exact Match Available"
	case domain.TriggerDeadline:
		return "Deadline Approaching"
	default:
		return "New Load Available"
	}
}

func messageFor(auction *domain.Auction, t domain.TriggerType, now time.Time) string {
	route := auction.Origin() + " -> " + auction.Destination()
	msg := fmt.Sprintf("Load %s: %s, %d mi", auction.BidNumber, route, auction.DistanceMiles)
	if auction.Tag != "" {
		msg += ", " + auction.Tag
	}
	switch t {
	case domain.TriggerBackhaul:
		msg += ". Picks up near one of your recent deliveries"
	case domain.TriggerExactMatch:
		msg += ". Same route as one of your favorite loads"
	}
	minutes := int(auction.TimeLeft(now).Round(time.Minute).Minutes())
	return fmt.Sprintf("%s. Bidding closes in %d min.", msg, minutes)
}
