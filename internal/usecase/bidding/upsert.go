package bidding

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/logger"
	biddingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/bidding"
	"github.com/google/uuid"
)

// UpsertBid создаёт ставку перевозчика или меняет сумму уже существующей.
// Одна строка на пару (bid number, carrier).
func (uc *DefaultBiddingUsecase) UpsertBid(ctx context.Context, input *biddingdto.UpsertBidInput) (*domain.Bid, error) {
	bid, err := uc.upsertBid(ctx, input)
	if err != nil {
		reason := string(domain.KindOf(err))
		if reason == "" {
			reason = "internal"
		}
		uc.metrics.RecordBidRejected(reason)
		uc.logEvent(ctx, logger.BidEvent{
			EventType:   logger.BidEventRejected,
			BidNumber:   input.BidNumber,
			CarrierID:   input.CarrierID,
			AmountCents: input.AmountCents,
			Reason:      err.Error(),
		})
		return nil, err
	}
	return bid, nil
}

func (uc *DefaultBiddingUsecase) upsertBid(ctx context.Context, input *biddingdto.UpsertBidInput) (*domain.Bid, error) {
	bidNumber := strings.TrimSpace(input.BidNumber)
	if bidNumber == "" {
		return nil, domain.InvalidArgument("bid number is required")
	}
	if input.CarrierID == "" {
		return nil, domain.InvalidArgument("carrier id is required")
	}
	if input.AmountCents <= 0 {
		return nil, domain.InvalidArgument("amount must be greater than zero")
	}
	if input.AmountCents > domain.MaxAmountCents {
		return nil, domain.InvalidArgument("amount exceeds %d cents", domain.MaxAmountCents)
	}

	auction, err := uc.auctionRepo.GetAuction(ctx, bidNumber)
	if err != nil {
		return nil, err
	}
	// быстрый отказ до проверки профиля, окончательная проверка под блокировкой
	if !auction.IsOpen(uc.clock.Now()) {
		return nil, domain.AuctionClosed(bidNumber, domain.ErrAuctionClosed.Message)
	}

	profile, err := uc.profiles.CheckProfile(ctx, input.CarrierID)
	if err != nil {
		return nil, err
	}
	if !profile.Complete {
		return nil, domain.ProfileIncomplete(profile.MissingFields)
	}

	bid := &domain.Bid{
		ID:          uuid.NewString(),
		BidNumber:   bidNumber,
		CarrierID:   input.CarrierID,
		AmountCents: input.AmountCents,
		Notes:       strings.TrimSpace(input.Notes),
	}
	saved, err := uc.bidRepo.UpsertBid(ctx, bid, uc.biddingOpen(func(now time.Time) {
		bid.CreatedAt = now
		bid.UpdatedAt = now
	}))
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordBidAccepted(auction.Tag, saved.AmountCents)
	uc.logEvent(ctx, logger.BidEvent{
		EventType:   logger.BidEventPlaced,
		BidID:       saved.ID,
		BidNumber:   saved.BidNumber,
		CarrierID:   saved.CarrierID,
		AmountCents: saved.AmountCents,
	})
	slog.Info("bid accepted",
		"bid_number", saved.BidNumber,
		"carrier_id", saved.CarrierID,
		"amount_cents", saved.AmountCents,
	)
	return saved, nil
}

// CancelBid удаляет ставку. После истечения аукциона или после award отмена запрещена.
func (uc *DefaultBiddingUsecase) CancelBid(ctx context.Context, input *biddingdto.CancelBidInput) error {
	if input.BidID == "" || input.CarrierID == "" {
		return domain.InvalidArgument("bid id and carrier id are required")
	}
	// id - UUID-колонка; мусор в пути это просто несуществующая ставка
	if _, err := uuid.Parse(input.BidID); err != nil {
		return domain.NotFound("bid " + input.BidID)
	}

	deleted, err := uc.bidRepo.DeleteBid(ctx, input.BidID, input.CarrierID, uc.biddingOpen(nil))
	if err != nil {
		return err
	}

	uc.metrics.RecordBidCanceled()
	uc.logEvent(ctx, logger.BidEvent{
		EventType:   logger.BidEventCanceled,
		BidID:       deleted.ID,
		BidNumber:   deleted.BidNumber,
		CarrierID:   deleted.CarrierID,
		AmountCents: deleted.AmountCents,
	})
	return nil
}

// Аудит не критичен: ошибка записи только логируется.
func (uc *DefaultBiddingUsecase) logEvent(ctx context.Context, event logger.BidEvent) {
	if uc.eventLogger == nil {
		return
	}
	event.Timestamp = uc.clock.Now()
	if err := uc.eventLogger.LogBidEvent(ctx, event); err != nil {
		slog.Warn("failed to write bid event", "event_type", event.EventType, "error", err)
	}
}
