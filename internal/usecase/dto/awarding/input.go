package awardingdto

type AwardInput struct {
	BidNumber       string
	WinnerCarrierID string
	AwardedBy       string
	AdminNotes      string
}

type ReAwardInput struct {
	BidNumber          string
	NewWinnerCarrierID string
	AwardedBy          string
	AdminNotes         string
	MarginCents        *int64
}
