package awarding

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	awardingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/awarding"
	"github.com/jaevor/go-nanoid"
)

// Award фиксирует первого победителя. Допустим и после истечения аукциона.
// Гонку двух админов решает уникальный индекс (bid_number, revision):
// проигравший получает ALREADY_AWARDED.
func (uc *DefaultAwardingUsecase) Award(ctx context.Context, input *awardingdto.AwardInput) (*awardingdto.AwardResult, error) {
	if err := validateTarget(input.BidNumber, input.WinnerCarrierID, input.AwardedBy); err != nil {
		return nil, err
	}

	awardID, err := newAwardID()
	if err != nil {
		return nil, err
	}
	award := &domain.Award{
		ID:              awardID,
		BidNumber:       strings.TrimSpace(input.BidNumber),
		Kind:            domain.AwardInitial,
		WinnerCarrierID: input.WinnerCarrierID,
		AwardedBy:       input.AwardedBy,
		AwardedAt:       uc.clock.Now(),
		AdminNotes:      strings.TrimSpace(input.AdminNotes),
	}

	created, err := uc.awardRepo.CreateAward(ctx, award)
	if err != nil {
		uc.rejected(domain.AwardInitial, award.BidNumber, err)
		return nil, err
	}

	uc.metrics.RecordAward(string(domain.AwardInitial))
	slog.Info("auction awarded",
		"bid_number", created.BidNumber,
		"winner_carrier_id", created.WinnerCarrierID,
		"amount_cents", created.WinnerAmountCents,
		"awarded_by", created.AwardedBy,
	)
	uc.publishAwarded(created, "")

	return &awardingdto.AwardResult{
		Award:   created,
		Winner:  uc.lookupWinner(ctx, created.WinnerCarrierID),
		Changed: true,
	}, nil
}

// ReAward добавляет новую ревизию; история не переписывается.
// Повтор на текущего победителя ничего не меняет.
func (uc *DefaultAwardingUsecase) ReAward(ctx context.Context, input *awardingdto.ReAwardInput) (*awardingdto.AwardResult, error) {
	if err := validateTarget(input.BidNumber, input.NewWinnerCarrierID, input.AwardedBy); err != nil {
		return nil, err
	}
	if input.MarginCents != nil && *input.MarginCents < 0 {
		return nil, domain.InvalidArgument("margin cannot be negative")
	}
	if input.MarginCents != nil && *input.MarginCents > domain.MaxAmountCents {
		return nil, domain.InvalidArgument("margin exceeds %d cents", domain.MaxAmountCents)
	}

	bidNumber := strings.TrimSpace(input.BidNumber)
	previous, err := uc.awardRepo.GetCurrentAward(ctx, bidNumber)
	if err != nil {
		uc.rejected(domain.AwardReAward, bidNumber, err)
		return nil, err
	}

	awardID, err := newAwardID()
	if err != nil {
		return nil, err
	}
	award := &domain.Award{
		ID:              awardID,
		BidNumber:       bidNumber,
		Kind:            domain.AwardReAward,
		WinnerCarrierID: input.NewWinnerCarrierID,
		AwardedBy:       input.AwardedBy,
		AwardedAt:       uc.clock.Now(),
		MarginCents:     input.MarginCents,
		AdminNotes:      strings.TrimSpace(input.AdminNotes),
	}

	current, err := uc.awardRepo.AppendAward(ctx, award)
	if err != nil {
		uc.rejected(domain.AwardReAward, bidNumber, err)
		return nil, err
	}

	changed := current.ID == award.ID
	if changed {
		uc.metrics.RecordAward(string(domain.AwardReAward))
		slog.Info("auction re-awarded",
			"bid_number", current.BidNumber,
			"revision", current.Revision,
			"winner_carrier_id", current.WinnerCarrierID,
			"previous_winner_id", previous.WinnerCarrierID,
			"awarded_by", current.AwardedBy,
		)
		uc.publishAwarded(current, previous.WinnerCarrierID)
	}

	return &awardingdto.AwardResult{
		Award:   current,
		Winner:  uc.lookupWinner(ctx, current.WinnerCarrierID),
		Changed: changed,
	}, nil
}

func validateTarget(bidNumber, winnerID, awardedBy string) error {
	if strings.TrimSpace(bidNumber) == "" {
		return domain.InvalidArgument("bid number is required")
	}
	if winnerID == "" {
		return domain.InvalidArgument("winner carrier id is required")
	}
	if awardedBy == "" {
		return domain.InvalidArgument("awarded by is required")
	}
	return nil
}

func newAwardID() (string, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return "", err
	}
	return idGenerator(), nil
}

// lookupWinner обогащает ответ, но не влияет на результат award.
func (uc *DefaultAwardingUsecase) lookupWinner(ctx context.Context, carrierID string) *domain.CarrierContact {
	if uc.directory == nil {
		return nil
	}
	contact, err := uc.directory.LookupCarrier(ctx, carrierID)
	if err != nil {
		slog.Warn("carrier directory lookup failed", "carrier_id", carrierID, "error", err)
		return nil
	}
	return contact
}

func (uc *DefaultAwardingUsecase) rejected(kind domain.AwardKind, bidNumber string, err error) {
	reason := string(domain.KindOf(err))
	if reason == "" {
		reason = "internal"
		slog.Error("award failed", "kind", kind, "bid_number", bidNumber, "error", err)
	}
	uc.metrics.RecordAwardRejected(string(kind), reason)
}
