package domain

import (
	"context"
	"time"
)

type AwardKind string

const (
	AwardInitial AwardKind = "AWARD"
	AwardReAward AwardKind = "RE_AWARD"
)

// Award is one award decision. Decisions for an auction form an append-only
// history ordered by Revision; the highest revision is the current winner.
type Award struct {
	ID                string
	BidNumber         string
	Revision          int
	Kind              AwardKind
	WinnerCarrierID   string
	WinnerAmountCents int64
	AwardedBy         string
	AwardedAt         time.Time
	MarginCents       *int64
	AdminNotes        string
	SupersededAt      *time.Time
}

func (a *Award) IsCurrent() bool {
	return a.SupersededAt == nil
}

type AwardRepository interface {
	// CreateAward records revision 1. The winner's amount is read from their
	// bid row in the same transaction. Fails with ErrAlreadyAwarded when any
	// revision exists, including when a concurrent caller got there first.
	CreateAward(ctx context.Context, award *Award) (*Award, error)
	// AppendAward records the next revision on top of the current award and
	// stamps the previous one as superseded. Re-awarding to the current
	// winner appends nothing and returns the current revision.
	AppendAward(ctx context.Context, award *Award) (*Award, error)
	GetCurrentAward(ctx context.Context, bidNumber string) (*Award, error)
	GetAwardHistory(ctx context.Context, bidNumber string) ([]*Award, error)
	ListCurrentAwardsForCarrier(ctx context.Context, carrierID string) ([]*Award, error)
	// RecentDeliveries lists loads currently awarded to the carrier since the
	// given time, newest first.
	RecentDeliveries(ctx context.Context, carrierID string, since time.Time) ([]RecentDelivery, error)
}

// RecentDelivery is where a carrier's awarded load ends.
type RecentDelivery struct {
	BidNumber   string
	Destination string
	AwardedAt   time.Time
}
