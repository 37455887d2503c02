package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

type CreateOrderRequest struct {
	OfferDetailID string `json:"offer_detail_id" binding:"required"`
}

func orderResponse(order *models.Order) gin.H {
	features := []string(order.Features)
	if features == nil {
		features = []string{}
	}
	return gin.H{
		"id":                    order.ID,
		"customer_user":         order.CustomerUserID,
		"business_user":         order.BusinessUserID,
		"title":                 order.Title,
		"revisions":             order.Revisions,
		"delivery_time_in_days": order.DeliveryTimeInDays,
		"price":                 order.Price,
		"features":              features,
		"offer_type":            order.OfferType,
		"status":                order.Status,
		"created_at":            helpers.FormatTimestamp(order.CreatedAt),
		"updated_at":            helpers.FormatTimestamp(order.UpdatedAt),
	}
}

// ListOrders returns every order in which the requester participates,
// newest first.
func ListOrders(c *gin.Context) {
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

	var orders []models.Order
	err := gormDB.
		Where("customer_user_id = ? OR business_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	results := make([]gin.H, 0, len(orders))
	for i := range orders {
		results = append(results, orderResponse(&orders[i]))
	}

	c.JSON(http.StatusOK, results)
}

// CreateOrder snapshots the chosen offer detail into a new order. The
// business party is the owner of the detail's parent offer.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"offer_detail_id": "This field is required.",
		})
		return
	}

	detailID, err := uuid.Parse(req.OfferDetailID)
	if err != nil {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"offer_detail_id": "Must be a valid offer detail ID.",
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

	if !helpers.HasCustomerProfile(gormDB, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only customers may create orders.")
		return
	}

	var detail models.OfferDetail
	if err := gormDB.Where("id = ?", detailID).First(&detail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Offer detail not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving offer detail.")
		return
	}

	var offer models.Offer
	if err := gormDB.Where("id = ?", detail.OfferID).First(&offer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving parent offer.")
		return
	}

	order := models.Order{
		CustomerUserID:     userID.(uuid.UUID),
		BusinessUserID:     offer.UserID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           detail.Features,
		OfferType:          detail.OfferType,
		Status:             models.OrderStatusInProgress,
	}

	if err := gormDB.Create(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create order.")
		return
	}

	c.JSON(http.StatusCreated, orderResponse(&order))
}

func GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	c.JSON(http.StatusOK, orderResponse(&order))
}

// UpdateOrderStatus is the only mutation an order supports. The patch may
// contain nothing but the status key, and only the business party may
// apply it.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
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

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	if !helpers.CanModifyOrderStatus(&order, userID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only the business user may change the status.")
		return
	}

	for field := range payload {
		if field != "status" {
			helpers.RespondWithError(c, http.StatusBadRequest, "Only the 'status' field may be updated.")
			return
		}
	}

	newStatus, ok := payload["status"].(string)
	if !ok || !models.IsValidOrderStatus(newStatus) {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"status": fmt.Sprintf("Invalid status. Expected one of %v.", models.ValidOrderStatuses),
		})
		return
	}

	order.Status = newStatus
	if err := gormDB.Save(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update order.")
		return
	}

	c.JSON(http.StatusOK, orderResponse(&order))
}

func DeleteOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	isStaff, exists := c.Get("is_staff")
	if !exists || !isStaff.(bool) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only staff users may delete orders.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	if err := gormDB.Delete(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order.")
		return
	}

	c.Status(http.StatusNoContent)
}

// countOrdersForBusiness resolves the business user and counts their orders
// with the given status. Responds 404 when the user has no business profile.
func countOrdersForBusiness(c *gin.Context, status string) (int64, bool) {
	businessUserID, err := uuid.Parse(c.Param("business_user_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return 0, false
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return 0, false
	}
	gormDB := db.(*gorm.DB)

	if !helpers.HasBusinessProfile(gormDB, businessUserID) {
		helpers.RespondWithError(c, http.StatusNotFound, "Business profile not found.")
		return 0, false
	}

	var count int64
	err = gormDB.Model(&models.Order{}).
		Where("business_user_id = ? AND status = ?", businessUserID, status).
		Count(&count).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting orders.")
		return 0, false
	}

	return count, true
}

func GetOrderCount(c *gin.Context) {
	count, ok := countOrdersForBusiness(c, models.OrderStatusInProgress)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_count": count})
}

func GetCompletedOrderCount(c *gin.Context) {
	count, ok := countOrdersForBusiness(c, models.OrderStatusCompleted)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_order_count": count})
}
