package response

import (
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error         string   `json:"error"`
	Kind          string   `json:"kind,omitempty"`
	BidNumber     string   `json:"bid_number,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

type AuctionResponse struct {
	BidNumber         string     `json:"bid_number"`
	DistanceMiles     int        `json:"distance_miles"`
	PickupTimestamp   *time.Time `json:"pickup_timestamp,omitempty"`
	DeliveryTimestamp *time.Time `json:"delivery_timestamp,omitempty"`
	Stops             []string   `json:"stops"`
	Tag               string     `json:"tag"`
	SourceChannel     string     `json:"source_channel"`
	ReceivedAt        time.Time  `json:"received_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	Status            string     `json:"status"`
	TimeLeftSeconds   int64      `json:"time_left_seconds"`
}

type BidResponse struct {
	ID          string    `json:"id"`
	BidNumber   string    `json:"bid_number"`
	CarrierID   string    `json:"carrier_id"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BidSummaryResponse struct {
	Auction           AuctionResponse `json:"auction"`
	BidCount          int             `json:"bid_count"`
	LowestAmountCents *int64          `json:"lowest_amount_cents,omitempty"`
	LowestAmount      string          `json:"lowest_amount,omitempty"`
	LowestBidderID    string          `json:"lowest_bidder_id,omitempty"`
	MyBid             *BidResponse    `json:"my_bid,omitempty"`
}

type AwardResponse struct {
	ID                string     `json:"id"`
	BidNumber         string     `json:"bid_number"`
	Revision          int        `json:"revision"`
	Kind              string     `json:"kind"`
	WinnerCarrierID   string     `json:"winner_carrier_id"`
	WinnerAmountCents int64      `json:"winner_amount_cents"`
	WinnerAmount      string     `json:"winner_amount"`
	AwardedBy         string     `json:"awarded_by"`
	AwardedAt         time.Time  `json:"awarded_at"`
	MarginCents       *int64     `json:"margin_cents,omitempty"`
	AdminNotes        string     `json:"admin_notes,omitempty"`
	SupersededAt      *time.Time `json:"superseded_at,omitempty"`
	Current           bool       `json:"current"`
}

type AwardResultResponse struct {
	Award   AwardResponse          `json:"award"`
	Winner  *domain.CarrierContact `json:"winner,omitempty"`
	Changed bool                   `json:"changed"`
}

type AwardHistoryResponse struct {
	BidNumber string          `json:"bid_number"`
	Current   AwardResponse   `json:"current"`
	Revisions []AwardResponse `json:"revisions"`
}

type TriggerResponse struct {
	ID            string             `json:"id"`
	CarrierID     string             `json:"carrier_id"`
	TriggerType   string             `json:"trigger_type"`
	TriggerConfig domain.TriggerRule `json:"trigger_config"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type NotificationStatsResponse struct {
	CarrierID          string    `json:"carrier_id"`
	Since              time.Time `json:"since"`
	UniqueBidsNotified int64     `json:"unique_bids_notified"`
}

func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func NewAuctionResponse(a *domain.Auction, now time.Time) AuctionResponse {
	stops := a.Stops
	if stops == nil {
		stops = []string{}
	}
	return AuctionResponse{
		BidNumber:         a.BidNumber,
		DistanceMiles:     a.DistanceMiles,
		PickupTimestamp:   a.PickupTime,
		DeliveryTimestamp: a.DeliveryTime,
		Stops:             stops,
		Tag:               a.Tag,
		SourceChannel:     a.SourceChannel,
		ReceivedAt:        a.ReceivedAt,
		ExpiresAt:         a.ExpiresAt(),
		Status:            string(a.Status(now)),
		TimeLeftSeconds:   int64(a.TimeLeft(now).Seconds()),
	}
}

func NewBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		ID:          b.ID,
		BidNumber:   b.BidNumber,
		CarrierID:   b.CarrierID,
		AmountCents: b.AmountCents,
		Amount:      FormatCents(b.AmountCents),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func NewBidResponses(bids []*domain.Bid) []BidResponse {
	out := make([]BidResponse, len(bids))
	for i, b := range bids {
		out[i] = NewBidResponse(b)
	}
	return out
}

func NewAwardResponse(a *domain.Award) AwardResponse {
	return AwardResponse{
		ID:                a.ID,
		BidNumber:         a.BidNumber,
		Revision:          a.Revision,
		Kind:              string(a.Kind),
		WinnerCarrierID:   a.WinnerCarrierID,
		WinnerAmountCents: a.WinnerAmountCents,
		WinnerAmount:      FormatCents(a.WinnerAmountCents),
		AwardedBy:         a.AwardedBy,
		AwardedAt:         a.AwardedAt,
		MarginCents:       a.MarginCents,
		AdminNotes:        a.AdminNotes,
		SupersededAt:      a.SupersededAt,
		Current:           a.IsCurrent(),
	}
}

func NewAwardResponses(awards []*domain.Award) []AwardResponse {
	out := make([]AwardResponse, len(awards))
	for i, a := range awards {
		out[i] = NewAwardResponse(a)
	}
	return out
}

func NewTriggerResponse(t *domain.Trigger) TriggerResponse {
	return TriggerResponse{
		ID:            t.ID,
		CarrierID:     t.CarrierID,
		TriggerType:   string(t.Type()),
		TriggerConfig: t.Rule,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
