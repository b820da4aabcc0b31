package handlers

import (
	"math"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	maxInt64Cents  = decimal.NewFromInt(math.MaxInt64)
	minInt64Cents  = decimal.NewFromInt(math.MinInt64)
	maxAmountCents = decimal.NewFromInt(domain.MaxAmountCents)
)

// parseCents reads a dollar amount like "500" or "500.25". Fractions of a cent
// and amounts above domain.MaxAmountCents are rejected.
func parseCents(dollars string) (int64, error) {
	d, err := decimal.NewFromString(dollars)
	if err != nil {
		return 0, domain.InvalidArgument("invalid amount %q", dollars)
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, domain.InvalidArgument("amount %q has fractional cents", dollars)
	}
	// IntPart молча переполняется за пределами int64
	if cents.GreaterThan(maxInt64Cents) || cents.LessThan(minInt64Cents) {
		return 0, domain.InvalidArgument("amount %q is out of range", dollars)
	}
	if cents.GreaterThan(maxAmountCents) {
		return 0, domain.InvalidArgument("amount %q exceeds the maximum bid", dollars)
	}
	return cents.IntPart(), nil
}

// centsFrom picks integer cents when given, otherwise parses the dollar string.
func centsFrom(dollars string, cents *int64) (int64, error) {
	if cents != nil {
		return *cents, nil
	}
	if dollars == "" {
		return 0, domain.InvalidArgument("amount is required")
	}
	return parseCents(dollars)
}
