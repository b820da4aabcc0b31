package domain

import "context"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCarrier Role = "carrier"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role Role
}

type IdentityResolver interface {
	ResolveActor(token string) (*Actor, error)
}

type ProfileCompleteness struct {
	Complete      bool
	MissingFields []string
}

type ProfileChecker interface {
	CheckProfile(ctx context.Context, carrierID string) (*ProfileCompleteness, error)
}

type CarrierContact struct {
	CarrierID   string `json:"carrier_id"`
	LegalName   string `json:"legal_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
}

type CarrierDirectory interface {
	LookupCarrier(ctx context.Context, carrierID string) (*CarrierContact, error)
}
