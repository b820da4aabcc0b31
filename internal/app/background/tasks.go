package background

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/config"
	"github.com/LavaJover/freight-auction-service/internal/domain"
	publisher "github.com/LavaJover/freight-auction-service/internal/infrastructure/kafka"
	"github.com/LavaJover/freight-auction-service/internal/usecase/auction"
	auctiondto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/auction"
)

type BackgroundTasks struct {
	AuctionUsecase auction.AuctionUsecase
	Subscriber     domain.SubscriberPort
	Jobs           config.Jobs
	Kafka          config.KafkaService
	logger         *slog.Logger
}

func NewBackgroundTasks(auctionUC auction.AuctionUsecase, subscriber domain.SubscriberPort, cfg *config.AuctionConfig, logger *slog.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		AuctionUsecase: auctionUC,
		Subscriber:     subscriber,
		Jobs:           cfg.Jobs,
		Kafka:          cfg.KafkaService,
		logger:         logger,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startMatchBacklog(ctx)
	go bt.startArchival(ctx)
	go bt.startDeadlineSweep(ctx)
	if bt.Subscriber != nil {
		go bt.startIngestionConsumer(ctx)
	}
}

func (bt *BackgroundTasks) startMatchBacklog(ctx context.Context) {
	ticker := time.NewTicker(bt.Jobs.MatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := bt.AuctionUsecase.ProcessMatchBacklog(ctx, bt.Jobs.ChunkSize)
			if err != nil {
				bt.logger.Error("match backlog failed", "error", err)
				continue
			}
			if report.Processed > 0 {
				bt.logger.Info("match backlog processed",
					"auctions", report.Processed,
					"sent", report.Sent,
					"skipped", report.Skipped,
					"failed", report.Failed,
				)
			}
		}
	}
}

func (bt *BackgroundTasks) startArchival(ctx context.Context) {
	ticker := time.NewTicker(bt.Jobs.ArchiveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.AuctionUsecase.ArchiveExpired(ctx, bt.Jobs.ArchiveAfter, bt.Jobs.ChunkSize); err != nil {
				bt.logger.Error("archival failed", "error", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startDeadlineSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.Jobs.DeadlineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := bt.AuctionUsecase.ProcessDeadlines(ctx, bt.Jobs.ChunkSize)
			if err != nil {
				bt.logger.Error("deadline sweep failed", "error", err)
				continue
			}
			if report.Sent > 0 || report.Failed > 0 {
				bt.logger.Info("deadline notifications sent", "sent", report.Sent, "failed", report.Failed)
			}
		}
	}
}

// startIngestionConsumer читает лоты из топика фидов.
func (bt *BackgroundTasks) startIngestionConsumer(ctx context.Context) {
	msgs, err := bt.Subscriber.Subscribe(ctx, bt.Kafka.IngestTopic, bt.Kafka.GroupID)
	if err != nil {
		bt.logger.Error("failed to subscribe to ingestion topic", "topic", bt.Kafka.IngestTopic, "error", err)
		return
	}
	for msg := range msgs {
		bt.ingest(ctx, msg)
	}
}

func (bt *BackgroundTasks) ingest(ctx context.Context, msg domain.Message) {
	var event publisher.LoadEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		bt.logger.Warn("skipping malformed load event", "key", string(msg.Key), "error", err)
		return
	}

	_, err := bt.AuctionUsecase.IngestAuction(ctx, &auctiondto.IngestAuctionInput{
		BidNumber:     event.BidNumber,
		DistanceMiles: event.DistanceMiles,
		PickupTime:    event.PickupTimestamp,
		DeliveryTime:  event.DeliveryTimestamp,
		Stops:         event.Stops,
		Tag:           event.Tag,
		SourceChannel: event.SourceChannel,
		ReceivedAt:    event.ReceivedAt,
	})
	if err != nil {
		bt.logger.Error("failed to ingest load", "bid_number", event.BidNumber, "error", err)
	}
}
