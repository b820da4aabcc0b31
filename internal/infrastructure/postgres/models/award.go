package models

import "time"

type AuctionAwardModel struct {
	ID                string `gorm:"primaryKey"`
	BidNumber         string `gorm:"not null;uniqueIndex:ux_auction_awards_revision"`
	Revision          int    `gorm:"not null;uniqueIndex:ux_auction_awards_revision"`
	Kind              string `gorm:"not null"`
	WinnerCarrierID   string `gorm:"not null;index:idx_auction_awards_winner"`
	WinnerAmountCents int64  `gorm:"not null"`
	AwardedBy         string `gorm:"not null"`
	AwardedAt         time.Time
	MarginCents       *int64
	AdminNotes        *string
	SupersededAt      *time.Time
}

func (AuctionAwardModel) TableName() string {
	return "auction_awards"
}
