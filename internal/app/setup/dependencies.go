package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/freight-auction-service/internal/config"
	"github.com/LavaJover/freight-auction-service/internal/domain"
	publisher "github.com/LavaJover/freight-auction-service/internal/infrastructure/kafka"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/logger"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/migrate"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/notifier"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.AuctionConfig
	DB           *gorm.DB
	Logger       *slog.Logger
	Clock        domain.Clock
	Metrics      *metrics.AuctionMetrics
	Publisher    *publisher.DefaultKafkaPublisher
	Subscriber   *publisher.DefaultKafkaSubscriber
	Hub          *notifier.Hub
	Delivery     domain.Delivery
	BidEvents    logger.BidEventLogger
	Repositories *Repositories
}

type Repositories struct {
	AuctionRepo         domain.AuctionRepository
	BidRepo             domain.BidRepository
	AwardRepo           domain.AwardRepository
	TriggerRepo         domain.TriggerRepository
	NotificationLogRepo domain.NotificationLogRepository
	CarrierProfiles     *repository.DefaultCarrierProfileRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogConfig)

	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.AuctionDB.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	deps := &Dependencies{
		Config:    cfg,
		DB:        db,
		Logger:    log,
		Clock:     domain.SystemClock{},
		Metrics:   metrics.NewAuctionMetrics(),
		Hub:       notifier.NewHub(),
		BidEvents: logger.NewPGBidEventLogger(db),
		Repositories: &Repositories{
			AuctionRepo:         repository.NewDefaultAuctionRepository(db),
			BidRepo:             repository.NewDefaultBidRepository(db),
			AwardRepo:           repository.NewDefaultAwardRepository(db),
			TriggerRepo:         repository.NewDefaultTriggerRepository(db),
			NotificationLogRepo: repository.NewDefaultNotificationLogRepository(db),
			CarrierProfiles:     repository.NewDefaultCarrierProfileRepository(db),
		},
	}

	if cfg.KafkaService.Enabled() {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		deps.Publisher = publisher.NewDefaultKafkaPublisher(brokers)
		deps.Subscriber = publisher.NewDefaultKafkaSubscriber(brokers)
	} else {
		log.Warn("kafka is not configured, ingestion topic and award events are disabled")
	}

	deps.Delivery = initDelivery(deps)
	return deps, nil
}

// initDelivery собирает каналы доставки: websocket всегда, webhook и kafka если настроены.
func initDelivery(deps *Dependencies) domain.Delivery {
	channels := []domain.Delivery{deps.Hub}
	if url := deps.Config.Notifier.WebhookURL; url != "" {
		channels = append(channels, notifier.NewWebhookDelivery(url, deps.Config.Notifier.Timeout))
	}
	if deps.Publisher != nil {
		channels = append(channels, publisher.NewNotificationDelivery(deps.Publisher, deps.Config.KafkaService.NotificationsTopic))
	}
	return notifier.NewFanOut(channels...)
}
