package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Offer struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	User        User
	Title       string `gorm:"not null"`
	Image       string
	Description string `gorm:"not null"`
	Details     []OfferDetail `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (offer *Offer) BeforeCreate(tx *gorm.DB) (err error) {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	return
}
