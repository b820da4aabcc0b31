package publisher

import "time"

// AwardEvent is published after an award or re-award commits.
type AwardEvent struct {
	EventType         string    `json:"event_type"`
	AwardID           string    `json:"award_id"`
	BidNumber         string    `json:"bid_number"`
	Revision          int       `json:"revision"`
	WinnerCarrierID   string    `json:"winner_carrier_id"`
	WinnerAmountCents int64     `json:"winner_amount_cents"`
	PreviousWinnerID  string    `json:"previous_winner_id,omitempty"`
	LosingCarrierIDs  []string  `json:"losing_carrier_ids,omitempty"`
	AwardedBy         string    `json:"awarded_by"`
	AwardedAt         time.Time `json:"awarded_at"`
}

const (
	EventAuctionAwarded   = "auction.awarded"
	EventAuctionReAwarded = "auction.reawarded"
)

// LoadEvent is the payload of the ingestion topic written by the load feeds.
type LoadEvent struct {
	BidNumber         string     `json:"bid_number"`
	DistanceMiles     int        `json:"distance_miles"`
	PickupTimestamp   *time.Time `json:"pickup_timestamp,omitempty"`
	DeliveryTimestamp *time.Time `json:"delivery_timestamp,omitempty"`
	Stops             []string   `json:"stops"`
	Tag               string     `json:"tag"`
	SourceChannel     string     `json:"source_channel"`
	ReceivedAt        *time.Time `json:"received_at,omitempty"`
}
