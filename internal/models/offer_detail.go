package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OfferDetail is one priced tier of an Offer. OfferType identifies the tier
// within its parent offer and doubles as the update key for detail patches.
type OfferDetail struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	OfferID            uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_offer_details_offer_type"`
	Title              string    `gorm:"not null"`
	Revisions          int       `gorm:"not null"`
	DeliveryTimeInDays int       `gorm:"not null"`
	Price              float64   `gorm:"not null"`
	Features           datatypes.JSONSlice[string]
	OfferType          string `gorm:"not null;uniqueIndex:idx_offer_details_offer_type"`
}

func (detail *OfferDetail) BeforeCreate(tx *gorm.DB) (err error) {
	if detail.ID == uuid.Nil {
		detail.ID = uuid.New()
	}
	return
}
