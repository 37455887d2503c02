package helpers

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/models"
)

// GenerateTokenKey returns a 40-character hex key for an opaque bearer token.
func GenerateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GetOrCreateToken returns the user's token, minting one on first use.
// Tokens are never rotated.
func GetOrCreateToken(db *gorm.DB, userID uuid.UUID) (*models.Token, error) {
	var token models.Token
	err := db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	key, err := GenerateTokenKey()
	if err != nil {
		return nil, err
	}
	token = models.Token{
		Key:    key,
		UserID: userID,
	}
	if err := db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
