package awarding

import (
	"context"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
	awardingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/awarding"
)

type AwardingUsecase interface {
	Award(ctx context.Context, input *awardingdto.AwardInput) (*awardingdto.AwardResult, error)
	ReAward(ctx context.Context, input *awardingdto.ReAwardInput) (*awardingdto.AwardResult, error)
	GetCurrentAward(ctx context.Context, bidNumber string) (*domain.Award, error)
	GetAwardHistory(ctx context.Context, bidNumber string) (*awardingdto.AwardHistory, error)
	ListAwardsForCarrier(ctx context.Context, carrierID string) ([]*domain.Award, error)
}

// EventPublisher is the Kafka side of the award flow.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic, key string, event any) error
}

type DefaultAwardingUsecase struct {
	awardRepo  domain.AwardRepository
	bidRepo    domain.BidRepository
	directory  domain.CarrierDirectory
	publisher  EventPublisher
	awardTopic string
	clock      domain.Clock
	metrics    *metrics.AuctionMetrics
}

func NewDefaultAwardingUsecase(
	awardRepo domain.AwardRepository,
	bidRepo domain.BidRepository,
	directory domain.CarrierDirectory,
	publisher EventPublisher,
	awardTopic string,
	clock domain.Clock,
	metrics *metrics.AuctionMetrics,
) *DefaultAwardingUsecase {
	return &DefaultAwardingUsecase{
		awardRepo:  awardRepo,
		bidRepo:    bidRepo,
		directory:  directory,
		publisher:  publisher,
		awardTopic: awardTopic,
		clock:      clock,
		metrics:    metrics,
	}
}
