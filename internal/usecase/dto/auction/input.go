package auctiondto

import "time"

type IngestAuctionInput struct {
	BidNumber     string
	DistanceMiles int
	PickupTime    *time.Time
	DeliveryTime  *time.Time
	Stops         []string
	Tag           string
	SourceChannel string
	// ReceivedAt defaults to now. Feeds that replay history pass the original time.
	ReceivedAt *time.Time
}
