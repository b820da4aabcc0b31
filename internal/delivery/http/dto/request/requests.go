package request

import (
	"encoding/json"
	"time"
)

// PlaceBidRequest accepts either a dollar string ("500.00") or integer cents.
type PlaceBidRequest struct {
	Amount      string `json:"amount"`
	AmountCents *int64 `json:"amount_cents"`
	Notes       string `json:"notes"`
}

type AwardRequest struct {
	WinnerCarrierID string `json:"winner_carrier_id" binding:"required"`
	AdminNotes      string `json:"admin_notes"`
}

type ReAwardRequest struct {
	NewWinnerCarrierID string `json:"new_winner_carrier_id" binding:"required"`
	AdminNotes         string `json:"admin_notes"`
	Margin             string `json:"margin"`
	MarginCents        *int64 `json:"margin_cents"`
}

type CreateTriggerRequest struct {
	TriggerType   string          `json:"trigger_type" binding:"required"`
	TriggerConfig json.RawMessage `json:"trigger_config"`
	IsActive      *bool           `json:"is_active"`
}

type UpdateTriggerRequest struct {
	TriggerType   string          `json:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config"`
	IsActive      *bool           `json:"is_active"`
}

type IngestAuctionRequest struct {
	BidNumber         string     `json:"bid_number" binding:"required"`
	DistanceMiles     int        `json:"distance_miles"`
	PickupTimestamp   *time.Time `json:"pickup_timestamp"`
	DeliveryTimestamp *time.Time `json:"delivery_timestamp"`
	Stops             []string   `json:"stops"`
	Tag               string     `json:"tag"`
	SourceChannel     string     `json:"source_channel"`
	ReceivedAt        *time.Time `json:"received_at"`
}
