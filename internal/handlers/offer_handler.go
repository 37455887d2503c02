package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

type OfferDetailRequest struct {
	Title              string   `json:"title" binding:"required"`
	Revisions          *int     `json:"revisions" binding:"required"`
	DeliveryTimeInDays *int     `json:"delivery_time_in_days" binding:"required"`
	Price              *float64 `json:"price" binding:"required"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type" binding:"required"`
}

type CreateOfferRequest struct {
	Title       string               `json:"title" binding:"required"`
	Image       string               `json:"image"`
	Description string               `json:"description" binding:"required"`
	Details     []OfferDetailRequest `json:"details"`
}

type UpdateOfferDetailRequest struct {
	Title              *string  `json:"title"`
	Revisions          *int     `json:"revisions"`
	DeliveryTimeInDays *int     `json:"delivery_time_in_days"`
	Price              *float64 `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type UpdateOfferRequest struct {
	Title       *string                    `json:"title"`
	Image       *string                    `json:"image"`
	Description *string                    `json:"description"`
	Details     []UpdateOfferDetailRequest `json:"details"`
}

func offerImageValue(offer *models.Offer) interface{} {
	if offer.Image == "" {
		return nil
	}
	return offer.Image
}

// offerDetailLinks renders the link-only detail view used by list and
// retrieve responses.
func offerDetailLinks(details []models.OfferDetail) []gin.H {
	links := make([]gin.H, 0, len(details))
	for _, detail := range details {
		links = append(links, gin.H{
			"id":  detail.ID,
			"url": fmt.Sprintf("/api/offerdetails/%s", detail.ID),
		})
	}
	return links
}

func offerDetailResponse(detail *models.OfferDetail) gin.H {
	features := []string(detail.Features)
	if features == nil {
		features = []string{}
	}
	return gin.H{
		"id":                    detail.ID,
		"title":                 detail.Title,
		"revisions":             detail.Revisions,
		"delivery_time_in_days": detail.DeliveryTimeInDays,
		"price":                 detail.Price,
		"features":              features,
		"offer_type":            detail.OfferType,
	}
}

func offerDetailResponses(details []models.OfferDetail) []gin.H {
	results := make([]gin.H, 0, len(details))
	for i := range details {
		results = append(results, offerDetailResponse(&details[i]))
	}
	return results
}

// offerMinima computes min price and min delivery time independently across
// the details; they need not come from the same detail row.
func offerMinima(details []models.OfferDetail) (interface{}, interface{}) {
	if len(details) == 0 {
		return nil, nil
	}
	minPrice := details[0].Price
	minDelivery := details[0].DeliveryTimeInDays
	for _, detail := range details[1:] {
		if detail.Price < minPrice {
			minPrice = detail.Price
		}
		if detail.DeliveryTimeInDays < minDelivery {
			minDelivery = detail.DeliveryTimeInDays
		}
	}
	return minPrice, minDelivery
}

func offerResponse(gormDB *gorm.DB, offer *models.Offer, withUserDetails bool) gin.H {
	minPrice, minDelivery := offerMinima(offer.Details)
	data := gin.H{
		"id":                offer.ID,
		"user":              offer.UserID,
		"title":             offer.Title,
		"image":             offerImageValue(offer),
		"description":       offer.Description,
		"created_at":        helpers.FormatTimestamp(offer.CreatedAt),
		"updated_at":        helpers.FormatTimestamp(offer.UpdatedAt),
		"details":           offerDetailLinks(offer.Details),
		"min_price":         minPrice,
		"min_delivery_time": minDelivery,
	}

	if withUserDetails {
		userDetails := gin.H{}
		var profile models.Profile
		if err := gormDB.Preload("User").Where("user_id = ?", offer.UserID).First(&profile).Error; err == nil {
			userDetails = gin.H{
				"first_name": profile.FirstName,
				"last_name":  profile.LastName,
				"username":   profile.User.Username,
			}
		}
		data["user_details"] = userDetails
	}

	return data
}

func ListOffers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	pageSize := c.DefaultQuery("page_size", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	pageSizeNum, err := helpers.StringToInt(pageSize)
	if err != nil || pageSizeNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page size.")
		return
	}

	query := gormDB.Model(&models.Offer{})

	if creator := c.Query("creator_id"); creator != "" {
		creatorID, err := uuid.Parse(creator)
		if err != nil {
			helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"creator_id": "Must be a valid user ID."})
			return
		}
		query = query.Where("user_id = ?", creatorID)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		minPriceVal, err := helpers.StringToFloat(minPrice)
		if err != nil {
			helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"min_price": "Must be a number."})
			return
		}
		query = query.Where("id IN (?)", gormDB.Model(&models.OfferDetail{}).
			Select("offer_id").Where("price >= ?", minPriceVal))
	}

	if maxDelivery := c.Query("max_delivery_time"); maxDelivery != "" {
		maxDeliveryVal, err := helpers.StringToInt(maxDelivery)
		if err != nil {
			helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"max_delivery_time": "Must be an integer."})
			return
		}
		query = query.Where("id IN (?)", gormDB.Model(&models.OfferDetail{}).
			Select("offer_id").Where("delivery_time_in_days <= ?", maxDeliveryVal))
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	orderClause := "updated_at DESC"
	switch ordering := c.Query("ordering"); ordering {
	case "", "-updated_at":
	case "updated_at":
		orderClause = "updated_at ASC"
	default:
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{"ordering": "Invalid ordering field."})
		return
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offers.")
		return
	}

	var offers []models.Offer
	offset := (pageNum - 1) * pageSizeNum
	err = query.Preload("Details").Offset(offset).Limit(pageSizeNum).Order(orderClause).Find(&offers).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offers.")
		return
	}

	results := make([]gin.H, 0, len(offers))
	for i := range offers {
		results = append(results, offerResponse(gormDB, &offers[i], true))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       totalCount,
		"page":        pageNum,
		"page_size":   pageSizeNum,
		"total_pages": (totalCount + int64(pageSizeNum) - 1) / int64(pageSizeNum),
		"results":     results,
	})
}

func CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if len(req.Details) < 3 {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"details": "An offer must include at least 3 detail items.",
		})
		return
	}

	seenTypes := make(map[string]bool, len(req.Details))
	for _, detail := range req.Details {
		if seenTypes[detail.OfferType] {
			helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
				"details": fmt.Sprintf("Duplicate offer_type '%s'.", detail.OfferType),
			})
			return
		}
		seenTypes[detail.OfferType] = true
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

	if !helpers.HasBusinessProfile(gormDB, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only business users may create offers.")
		return
	}

	offer := models.Offer{
		UserID:      userID.(uuid.UUID),
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&offer).Error; err != nil {
			return err
		}
		for _, detailReq := range req.Details {
			detail := models.OfferDetail{
				OfferID:            offer.ID,
				Title:              detailReq.Title,
				Revisions:          *detailReq.Revisions,
				DeliveryTimeInDays: *detailReq.DeliveryTimeInDays,
				Price:              *detailReq.Price,
				Features:           datatypes.NewJSONSlice(detailReq.Features),
				OfferType:          detailReq.OfferType,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
			offer.Details = append(offer.Details, detail)
		}
		return nil
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create offer.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          offer.ID,
		"title":       offer.Title,
		"image":       offerImageValue(&offer),
		"description": offer.Description,
		"details":     offerDetailResponses(offer.Details),
	})
}

func GetOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid offer ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var offer models.Offer
	if err := gormDB.Preload("Details").Where("id = ?", offerID).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Offer not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offer.")
		return
	}

	c.JSON(http.StatusOK, offerResponse(gormDB, &offer, false))
}

func UpdateOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid offer ID.")
		return
	}

	var req UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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

	var offer models.Offer
	if err := gormDB.Where("id = ?", offerID).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Offer not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offer.")
		return
	}

	if !helpers.CanModifyOffer(&offer, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only the creator may edit this offer.")
		return
	}

	// Detail entries are matched to existing rows by offer_type; this path
	// never creates or removes detail rows.
	type detailError struct {
		status int
		fields gin.H
	}
	var reqErr *detailError

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil {
			offer.Title = *req.Title
		}
		if req.Image != nil {
			offer.Image = *req.Image
		}
		if req.Description != nil {
			offer.Description = *req.Description
		}
		if err := tx.Save(&offer).Error; err != nil {
			return err
		}

		for _, detailReq := range req.Details {
			if detailReq.OfferType == "" {
				reqErr = &detailError{http.StatusBadRequest, gin.H{
					"offer_type": "offer_type field required to identify detail.",
				}}
				return gorm.ErrInvalidData
			}

			var detail models.OfferDetail
			err := tx.Where("offer_id = ? AND offer_type = ?", offer.ID, detailReq.OfferType).First(&detail).Error
			if err == gorm.ErrRecordNotFound {
				reqErr = &detailError{http.StatusBadRequest, gin.H{
					"details": fmt.Sprintf("No detail found for offer_type '%s'.", detailReq.OfferType),
				}}
				return gorm.ErrInvalidData
			} else if err != nil {
				return err
			}

			if detailReq.Title != nil {
				detail.Title = *detailReq.Title
			}
			if detailReq.Revisions != nil {
				detail.Revisions = *detailReq.Revisions
			}
			if detailReq.DeliveryTimeInDays != nil {
				detail.DeliveryTimeInDays = *detailReq.DeliveryTimeInDays
			}
			if detailReq.Price != nil {
				detail.Price = *detailReq.Price
			}
			if detailReq.Features != nil {
				detail.Features = datatypes.NewJSONSlice(detailReq.Features)
			}
			if err := tx.Save(&detail).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if reqErr != nil {
			helpers.RespondWithFieldErrors(c, reqErr.status, reqErr.fields)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update offer.")
		return
	}

	var details []models.OfferDetail
	if err := gormDB.Where("offer_id = ?", offer.ID).Find(&details).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offer details.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          offer.ID,
		"title":       offer.Title,
		"image":       offerImageValue(&offer),
		"description": offer.Description,
		"details":     offerDetailResponses(details),
	})
}

func DeleteOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid offer ID.")
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

	var offer models.Offer
	if err := gormDB.Where("id = ?", offerID).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Offer not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offer.")
		return
	}

	if !helpers.CanModifyOffer(&offer, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only the creator may delete this offer.")
		return
	}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&models.OfferDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&offer).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete offer.")
		return
	}

	c.Status(http.StatusNoContent)
}

func GetOfferDetail(c *gin.Context) {
	detailID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid offer detail ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var detail models.OfferDetail
	if err := gormDB.Where("id = ?", detailID).First(&detail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Offer detail not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offer detail.")
		return
	}

	c.JSON(http.StatusOK, offerDetailResponse(&detail))
}
