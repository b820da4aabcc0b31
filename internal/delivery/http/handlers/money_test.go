package handlers

import (
	"errors"
	"testing"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/peterldowns/testy/check"
)

func TestParseCents(t *testing.T) {
	valid := map[string]int64{
		"500":     50000,
		"500.25":  50025,
		"0.5":     50,
		"1200.10": 120010,
		// ровно максимум
		"10000000": 1_000_000_000,
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, err := parseCents(in)
			check.NoError(t, err)
			check.Equal(t, want, got)
		})
	}

	for _, in := range []string{
		"12.345", "abc", "",
		"200000000000000000",
		"92233720368547758.08",
		"-92233720368547758.09",
		"10000000.01",
	} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := parseCents(in)
			check.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}

func TestCentsFromPrefersIntegerCents(t *testing.T) {
	cents := int64(42)
	got, err := centsFrom("999.99", &cents)
	check.NoError(t, err)
	check.Equal(t, int64(42), got)

	_, err = centsFrom("", nil)
	check.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
