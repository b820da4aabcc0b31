package awardingdto

import "github.com/LavaJover/freight-auction-service/internal/domain"

// AwardResult is the award plus the winner's contact details. Winner is nil
// when the carrier directory could not be reached.
type AwardResult struct {
	Award   *domain.Award
	Winner  *domain.CarrierContact
	Changed bool
}

type AwardHistory struct {
	BidNumber string
	Current   *domain.Award
	Revisions []*domain.Award
}
