package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuctionModel struct {
	BidNumber         string `gorm:"primaryKey"`
	DistanceMiles     int
	PickupTimestamp   *time.Time
	DeliveryTimestamp *time.Time
	Stops             datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Tag               string                      `gorm:"index:idx_auctions_tag"`
	SourceChannel     string
	ReceivedAt        time.Time  `gorm:"not null;index:idx_auctions_received_at"`
	ArchivedAt        *time.Time `gorm:"index:idx_auctions_archived_at"`
	MatchedAt         *time.Time
	CreatedAt         time.Time
}

func (AuctionModel) TableName() string {
	return "auctions"
}
