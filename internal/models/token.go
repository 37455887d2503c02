package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token is an opaque bearer credential. One per user, minted on first need
// and never rotated or expired.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Key       string    `gorm:"unique;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;unique;not null"`
	User      User
	CreatedAt time.Time
}

func (token *Token) BeforeCreate(tx *gorm.DB) (err error) {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return
}
