package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses lists the only values the status field may take.
var ValidOrderStatuses = []string{
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Order snapshots the fields of one OfferDetail at purchase time. Everything
// except Status is immutable after creation.
type Order struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerUserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessUserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title              string    `gorm:"not null"`
	Revisions          int       `gorm:"not null"`
	DeliveryTimeInDays int       `gorm:"not null"`
	Price              float64   `gorm:"not null"`
	Features           datatypes.JSONSlice[string]
	OfferType          string `gorm:"not null"`
	Status             string `gorm:"not null;default:'in_progress'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}

// IsValidOrderStatus reports whether s is one of the allowed status values.
func IsValidOrderStatus(s string) bool {
	for _, valid := range ValidOrderStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
