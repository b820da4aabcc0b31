package auction

import (
	"context"
	"strings"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	auctiondto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/auction"
)

// IngestAuction сохраняет лот из фида. Повторная доставка того же bid number
// ничего не меняет. Новый лот сразу проходит matching; если это не удалось,
// его подберёт фоновый backlog.
func (uc *DefaultAuctionUsecase) IngestAuction(ctx context.Context, input *auctiondto.IngestAuctionInput) (*auctiondto.IngestAuctionOutput, error) {
	auction, err := uc.buildAuction(input)
	if err != nil {
		return nil, err
	}

	created, err := uc.auctionRepo.CreateAuction(ctx, auction)
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordAuctionIngested(auction.SourceChannel, created)

	if !created {
		uc.logger.Debug("duplicate auction ignored", "bid_number", auction.BidNumber)
		existing, err := uc.auctionRepo.GetAuction(ctx, auction.BidNumber)
		if err != nil {
			return nil, err
		}
		return &auctiondto.IngestAuctionOutput{Auction: existing, Created: false}, nil
	}

	uc.logger.Info("auction ingested",
		"bid_number", auction.BidNumber,
		"source_channel", auction.SourceChannel,
		"expires_at", auction.ExpiresAt(),
	)

	if _, err := uc.processAuction(ctx, auction); err != nil {
		uc.logger.Warn("matching deferred to backlog", "bid_number", auction.BidNumber, "error", err)
	}
	return &auctiondto.IngestAuctionOutput{Auction: auction, Created: true}, nil
}

func (uc *DefaultAuctionUsecase) buildAuction(input *auctiondto.IngestAuctionInput) (*domain.Auction, error) {
	bidNumber := strings.TrimSpace(input.BidNumber)
	if bidNumber == "" {
		return nil, domain.InvalidArgument("bid number is required")
	}
	if input.DistanceMiles < 0 {
		return nil, domain.InvalidArgument("distance cannot be negative")
	}

	stops := make([]string, 0, len(input.Stops))
	for _, s := range input.Stops {
		if s = strings.TrimSpace(s); s != "" {
			stops = append(stops, s)
		}
	}

	receivedAt := uc.clock.Now()
	if input.ReceivedAt != nil && !input.ReceivedAt.IsZero() {
		receivedAt = *input.ReceivedAt
	}

	return &domain.Auction{
		BidNumber:     bidNumber,
		DistanceMiles: input.DistanceMiles,
		PickupTime:    input.PickupTime,
		DeliveryTime:  input.DeliveryTime,
		Stops:         stops,
		Tag:           strings.TrimSpace(input.Tag),
		SourceChannel: input.SourceChannel,
		ReceivedAt:    receivedAt,
	}, nil
}
