package models

import "time"

type CarrierBidModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	BidNumber   string `gorm:"not null;uniqueIndex:ux_carrier_bids_auction_carrier"`
	CarrierID   string `gorm:"not null;uniqueIndex:ux_carrier_bids_auction_carrier;index:idx_carrier_bids_carrier"`
	AmountCents int64  `gorm:"not null"`
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CarrierBidModel) TableName() string {
	return "carrier_bids"
}
