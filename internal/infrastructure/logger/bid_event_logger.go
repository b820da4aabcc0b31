package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	BidEventPlaced   = "BID_PLACED"
	BidEventCanceled = "BID_CANCELED"
	BidEventRejected = "BID_REJECTED"
)

// BidEvent is one row of the bid audit trail.
type BidEvent struct {
	ID          uint `gorm:"primaryKey"`
	EventType   string
	BidID       string
	BidNumber   string
	CarrierID   string
	AmountCents int64
	Reason      string
	Timestamp   time.Time
}

func (BidEvent) TableName() string {
	return "bid_events"
}

type BidEventLogger interface {
	LogBidEvent(ctx context.Context, event BidEvent) error
}

type PGBidEventLogger struct {
	db *gorm.DB
}

func NewPGBidEventLogger(db *gorm.DB) *PGBidEventLogger {
	return &PGBidEventLogger{db: db}
}

func (l *PGBidEventLogger) LogBidEvent(ctx context.Context, event BidEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
