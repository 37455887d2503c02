package handlers

import (
	"database/sql"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/models"
)

// GetBaseInfo returns site-wide aggregate statistics. Unlike the other
// endpoints it maps every data-access failure to a generic 500.
func GetBaseInfo(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	gormDB := db.(*gorm.DB)

	var reviewCount int64
	if err := gormDB.Model(&models.Review{}).Count(&reviewCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	var avgRating sql.NullFloat64
	if err := gormDB.Model(&models.Review{}).Select("AVG(rating)").Scan(&avgRating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	averageRating := 0.0
	if avgRating.Valid {
		averageRating = math.Round(avgRating.Float64*10) / 10
	}

	var businessProfileCount int64
	err := gormDB.Model(&models.Profile{}).
		Where("type = ?", models.ProfileTypeBusiness).
		Count(&businessProfileCount).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	var offerCount int64
	if err := gormDB.Model(&models.Offer{}).Count(&offerCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review_count":           reviewCount,
		"average_rating":         averageRating,
		"business_profile_count": businessProfileCount,
		"offer_count":            offerCount,
	})
}
