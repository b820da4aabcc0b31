package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// Значения-заглушки, которые онбординг пишет до заполнения профиля.
const (
	placeholderCompanyName = "Pending Setup"
	placeholderMcPrefix    = "TBD-"
)

// DefaultCarrierProfileRepository reads carrier_profiles and serves both the
// ProfileChecker and CarrierDirectory ports.
type DefaultCarrierProfileRepository struct {
	DB *gorm.DB
}

func NewDefaultCarrierProfileRepository(db *gorm.DB) *DefaultCarrierProfileRepository {
	return &DefaultCarrierProfileRepository{DB: db}
}

func (r *DefaultCarrierProfileRepository) CheckProfile(ctx context.Context, carrierID string) (*domain.ProfileCompleteness, error) {
	profile, err := r.getProfile(ctx, carrierID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return &domain.ProfileCompleteness{
				MissingFields: []string{"company_name", "mc_number", "contact_name", "phone"},
			}, nil
		}
		return nil, err
	}
	return checkCompleteness(profile), nil
}

func (r *DefaultCarrierProfileRepository) LookupCarrier(ctx context.Context, carrierID string) (*domain.CarrierContact, error) {
	profile, err := r.getProfile(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainCarrierContact(profile), nil
}

func (r *DefaultCarrierProfileRepository) getProfile(ctx context.Context, carrierID string) (*models.CarrierProfileModel, error) {
	var profile models.CarrierProfileModel
	if err := r.DB.WithContext(ctx).First(&profile, "carrier_id = ?", carrierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("carrier profile " + carrierID)
		}
		return nil, fmt.Errorf("failed to get carrier profile %s: %w", carrierID, err)
	}
	return &profile, nil
}

func checkCompleteness(profile *models.CarrierProfileModel) *domain.ProfileCompleteness {
	var missing []string
	if blank(profile.CompanyName) || *profile.CompanyName == placeholderCompanyName {
		missing = append(missing, "company_name")
	}
	if blank(profile.McNumber) || strings.HasPrefix(*profile.McNumber, placeholderMcPrefix) {
		missing = append(missing, "mc_number")
	}
	if blank(profile.ContactName) {
		missing = append(missing, "contact_name")
	}
	if blank(profile.Phone) {
		missing = append(missing, "phone")
	}
	return &domain.ProfileCompleteness{
		Complete:      len(missing) == 0,
		MissingFields: missing,
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
