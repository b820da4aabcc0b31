package domain

import (
	"context"
	"time"
)

// Match says that trigger TriggerID owned by CarrierID fired for BidNumber.
type Match struct {
	CarrierID   string
	TriggerID   string
	TriggerType TriggerType
	BidNumber   string
}

type Notification struct {
	CarrierID   string    `json:"carrier_id"`
	TriggerID   string    `json:"trigger_id"`
	TriggerType string    `json:"trigger_type"`
	BidNumber   string    `json:"bid_number"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type NotificationLog struct {
	ID        string
	TriggerID string
	CarrierID string
	BidNumber string
	Message   string
	SentAt    time.Time
}

type NotificationLogRepository interface {
	// RecordOnce claims the (trigger, bid number) pair and calls deliver
	// while holding the claim. sent is false when the pair was already
	// claimed. When deliver fails the claim is released so a later pass
	// can try again.
	RecordOnce(ctx context.Context, entry *NotificationLog, deliver func() error) (sent bool, err error)
	CountUniqueBidsNotified(ctx context.Context, carrierID string, since time.Time) (int64, error)
}

// Delivery hands a notification to an outside channel (push, SMS, email).
type Delivery interface {
	Send(ctx context.Context, n Notification) error
}
