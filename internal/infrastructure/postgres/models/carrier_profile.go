package models

import "time"

// CarrierProfileModel is owned by the profile service; this service only reads it.
type CarrierProfileModel struct {
	CarrierID   string `gorm:"primaryKey"`
	LegalName   string
	CompanyName *string
	McNumber    *string
	DotNumber   *string
	Phone       *string
	ContactName *string
	Email       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CarrierProfileModel) TableName() string {
	return "carrier_profiles"
}
