package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

var errNoChannels = errors.New("no delivery channels configured")

// FanOut sends through every channel and succeeds only when at least one of
// them delivered. ErrOffline counts as not delivered.
type FanOut struct {
	channels []domain.Delivery
}

func NewFanOut(channels ...domain.Delivery) *FanOut {
	return &FanOut{channels: channels}
}

func (f *FanOut) Send(ctx context.Context, n domain.Notification) error {
	if len(f.channels) == 0 {
		return errNoChannels
	}

	delivered := 0
	var errs []error
	for _, ch := range f.channels {
		err := ch.Send(ctx, n)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrOffline):
			errs = append(errs, err)
		default:
			slog.Warn("notification channel failed",
				"carrier_id", n.CarrierID,
				"bid_number", n.BidNumber,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	if delivered == 0 {
		return errors.Join(errs...)
	}
	return nil
}
