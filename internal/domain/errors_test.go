package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("upsert: %w", AuctionClosed("12345", "auction closed - already awarded"))

	check.True(t, errors.Is(err, ErrAuctionClosed))
	check.False(t, errors.Is(err, ErrAlreadyAwarded))
	check.Equal(t, KindAuctionClosed, KindOf(err))
	check.Equal(t, "auction closed - already awarded (bid 12345)", AuctionClosed("12345", "auction closed - already awarded").Error())
}

func TestKindOfInfrastructureError(t *testing.T) {
	check.Equal(t, ErrorKind(""), KindOf(errors.New("connection reset")))
	check.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestProfileIncomplete(t *testing.T) {
	err := ProfileIncomplete([]string{"phone", "dot_number"})

	var derr *Error
	check.True(t, errors.As(err, &derr))
	check.Equal(t, []string{"phone", "dot_number"}, derr.MissingFields)
	check.True(t, errors.Is(err, ErrProfileIncomplete))
	check.Equal(t, "profile incomplete, please complete: phone, dot_number", err.Error())
}
