package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

type CreateReviewRequest struct {
	BusinessUser string `json:"business_user" binding:"required"`
	Rating       *int   `json:"rating" binding:"required"`
	Description  string `json:"description"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
}

func reviewResponse(review *models.Review) gin.H {
	return gin.H{
		"id":            review.ID,
		"business_user": review.BusinessUserID,
		"reviewer":      review.ReviewerID,
		"rating":        review.Rating,
		"description":   review.Description,
		"created_at":    helpers.FormatTimestamp(review.CreatedAt),
		"updated_at":    helpers.FormatTimestamp(review.UpdatedAt),
	}
}

func ListReviews(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.Review{})

	if businessID := c.Query("business_user_id"); businessID != "" {
		id, err := uuid.Parse(businessID)
		if err != nil {
			helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"business_user_id": "Must be a valid user ID."})
			return
		}
		query = query.Where("business_user_id = ?", id)
	}

	if reviewerID := c.Query("reviewer_id"); reviewerID != "" {
		id, err := uuid.Parse(reviewerID)
		if err != nil {
			helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"reviewer_id": "Must be a valid user ID."})
			return
		}
		query = query.Where("reviewer_id = ?", id)
	}

	orderClause := "updated_at DESC"
	switch ordering := c.Query("ordering"); ordering {
	case "", "-updated_at":
	case "updated_at":
		orderClause = "updated_at ASC"
	case "rating":
		orderClause = "rating ASC"
	case "-rating":
		orderClause = "rating DESC"
	default:
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"ordering": "Invalid ordering field."})
		return
	}

	var reviews []models.Review
	if err := query.Order(orderClause).Find(&reviews).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	results := make([]gin.H, 0, len(reviews))
	for i := range reviews {
		results = append(results, reviewResponse(&reviews[i]))
	}

	c.JSON(http.StatusOK, results)
}

func CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if *req.Rating < 1 || *req.Rating > 5 {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"rating": "Rating must be between 1 and 5.",
		})
		return
	}

	businessUserID, err := uuid.Parse(req.BusinessUser)
	if err != nil {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"business_user": "Must be a valid user ID.",
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	reviewerID := userID.(uuid.UUID)

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	if !helpers.HasCustomerProfile(gormDB, reviewerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only customers may create reviews.")
		return
	}

	if !helpers.HasBusinessProfile(gormDB, businessUserID) {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"business_user": "business_user must have an associated business profile.",
		})
		return
	}

	var existing models.Review
	err = gormDB.Where("business_user_id = ? AND reviewer_id = ?", businessUserID, reviewerID).First(&existing).Error
	if err == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "You have already reviewed this business.")
		return
	} else if err != gorm.ErrRecordNotFound {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking existing reviews.")
		return
	}

	review := models.Review{
		BusinessUserID: businessUserID,
		ReviewerID:     reviewerID,
		Rating:         *req.Rating,
		Description:    req.Description,
	}

	if err := gormDB.Create(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create review.")
		return
	}

	c.JSON(http.StatusCreated, reviewResponse(&review))
}

func GetReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid review ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var review models.Review
	if err := gormDB.Where("id = ?", reviewID).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Review not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving review.")
		return
	}

	c.JSON(http.StatusOK, reviewResponse(&review))
}

// UpdateReview honors only the rating and description fields; everything
// else on a review is immutable.
func UpdateReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid review ID.")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"rating": "Rating must be between 1 and 5.",
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var review models.Review
	if err := gormDB.Where("id = ?", reviewID).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Review not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving review.")
		return
	}

	if !helpers.CanModifyReview(&review, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only the original reviewer may modify this review.")
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Description != nil {
		review.Description = *req.Description
	}

	if err := gormDB.Save(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update review.")
		return
	}

	c.JSON(http.StatusOK, reviewResponse(&review))
}

func DeleteReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid review ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var review models.Review
	if err := gormDB.Where("id = ?", reviewID).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Review not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving review.")
		return
	}

	if !helpers.CanModifyReview(&review, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only the original reviewer may delete this review.")
		return
	}

	if err := gormDB.Delete(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete review.")
		return
	}

	c.Status(http.StatusNoContent)
}
