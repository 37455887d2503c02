package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is feedback left by a customer for a business user. Rows are hard
// deleted so a reviewer can review the same business again after removing
// their earlier review.
type Review struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	BusinessUserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_business_reviewer"`
	ReviewerID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_business_reviewer"`
	Rating         int       `gorm:"not null"`
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (review *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return
}
