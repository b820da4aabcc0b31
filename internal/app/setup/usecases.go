package setup

import (
	"github.com/LavaJover/freight-auction-service/internal/usecase/auction"
	"github.com/LavaJover/freight-auction-service/internal/usecase/awarding"
	"github.com/LavaJover/freight-auction-service/internal/usecase/bidding"
	"github.com/LavaJover/freight-auction-service/internal/usecase/dispatch"
	"github.com/LavaJover/freight-auction-service/internal/usecase/matching"
	"github.com/LavaJover/freight-auction-service/internal/usecase/triggers"
)

type UseCases struct {
	AuctionUsecase  auction.AuctionUsecase
	BiddingUsecase  bidding.BiddingUsecase
	AwardingUsecase awarding.AwardingUsecase
	TriggerUsecase  triggers.TriggerUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	repos := deps.Repositories

	engine := matching.NewEngine(
		repos.TriggerRepo,
		repos.AwardRepo,
		repos.AuctionRepo,
		deps.Metrics,
		deps.Logger.With("component", "matching"),
	)
	dispatcher := dispatch.NewDispatcher(
		repos.NotificationLogRepo,
		deps.Delivery,
		deps.Clock,
		deps.Metrics,
		deps.Logger.With("component", "dispatch"),
	)

	// nil interface, а не nil-указатель: usecase проверяет publisher == nil
	var events awarding.EventPublisher
	if deps.Publisher != nil {
		events = deps.Publisher
	}

	return &UseCases{
		AuctionUsecase: auction.NewDefaultAuctionUsecase(
			repos.AuctionRepo,
			engine,
			dispatcher,
			deps.Clock,
			deps.Metrics,
			deps.Logger.With("component", "auction"),
		),
		BiddingUsecase: bidding.NewDefaultBiddingUsecase(
			repos.AuctionRepo,
			repos.BidRepo,
			repos.CarrierProfiles,
			deps.Clock,
			deps.Metrics,
			deps.BidEvents,
		),
		AwardingUsecase: awarding.NewDefaultAwardingUsecase(
			repos.AwardRepo,
			repos.BidRepo,
			repos.CarrierProfiles,
			events,
			deps.Config.KafkaService.AwardTopic,
			deps.Clock,
			deps.Metrics,
		),
		TriggerUsecase: triggers.NewDefaultTriggerUsecase(repos.TriggerRepo, repos.NotificationLogRepo, deps.Clock),
	}
}
