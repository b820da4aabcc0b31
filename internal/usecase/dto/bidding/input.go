package biddingdto

type UpsertBidInput struct {
	BidNumber   string
	CarrierID   string
	AmountCents int64
	Notes       string
}

type CancelBidInput struct {
	BidID     string
	CarrierID string
}
