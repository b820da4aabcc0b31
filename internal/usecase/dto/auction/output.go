package auctiondto

import "github.com/LavaJover/freight-auction-service/internal/domain"

type IngestAuctionOutput struct {
	Auction *domain.Auction
	Created bool
}

type BacklogReport struct {
	Processed int
	Sent      int
	Skipped   int
	Failed    int
}
