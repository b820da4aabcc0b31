package awarding

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	publisher "github.com/LavaJover/freight-auction-service/internal/infrastructure/kafka"
)

const publishTimeout = 10 * time.Second

// publishAwarded runs after commit. A failure here does not undo the award.
func (uc *DefaultAwardingUsecase) publishAwarded(award *domain.Award, previousWinnerID string) {
	if uc.publisher == nil {
		return
	}

	eventType := publisher.EventAuctionAwarded
	if award.Kind == domain.AwardReAward {
		eventType = publisher.EventAuctionReAwarded
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		event := publisher.AwardEvent{
			EventType:         eventType,
			AwardID:           award.ID,
			BidNumber:         award.BidNumber,
			Revision:          award.Revision,
			WinnerCarrierID:   award.WinnerCarrierID,
			WinnerAmountCents: award.WinnerAmountCents,
			PreviousWinnerID:  previousWinnerID,
			AwardedBy:         award.AwardedBy,
			AwardedAt:         award.AwardedAt,
		}
		if bids, err := uc.bidRepo.ListBidsForAuction(ctx, award.BidNumber); err == nil {
			for _, b := range bids {
				if b.CarrierID != award.WinnerCarrierID {
					event.LosingCarrierIDs = append(event.LosingCarrierIDs, b.CarrierID)
				}
			}
		}

		if err := uc.publisher.PublishJSON(ctx, uc.awardTopic, award.BidNumber, event); err != nil {
			slog.Error("failed to publish kafka award event", "event_type", eventType, "bid_number", award.BidNumber, "error", err)
		}
	}()
}
