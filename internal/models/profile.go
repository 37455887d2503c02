package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProfileTypeBusiness = "business"
	ProfileTypeCustomer = "customer"
)

// Profile extends a User with marketplace-role data. Exactly one profile
// exists per user; Type decides whether the account acts as a business or
// a customer.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID       uuid.UUID `gorm:"type:uuid;unique;not null"`
	User         User
	Type         string `gorm:"not null;index"`
	FirstName    string
	LastName     string
	Location     string
	Tel          string
	Description  string
	WorkingHours string
	File         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (profile *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return
}
