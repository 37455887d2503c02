package helpers

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/models"
)

// Authorization predicates shared by the handlers. Each answers a single
// "may this actor touch this resource" question so the ownership rules live
// in one place instead of being re-derived per endpoint.

// HasBusinessProfile reports whether the user acts as a business.
func HasBusinessProfile(db *gorm.DB, userID uuid.UUID) bool {
	var count int64
	db.Model(&models.Profile{}).
		Where("user_id = ? AND type = ?", userID, models.ProfileTypeBusiness).
		Count(&count)
	return count > 0
}

// HasCustomerProfile reports whether the user acts as a customer.
func HasCustomerProfile(db *gorm.DB, userID uuid.UUID) bool {
	var count int64
	db.Model(&models.Profile{}).
		Where("user_id = ? AND type = ?", userID, models.ProfileTypeCustomer).
		Count(&count)
	return count > 0
}

// CanModifyProfile allows only the profile owner.
func CanModifyProfile(profileUserID, requesterID uuid.UUID) bool {
	return profileUserID == requesterID
}

// CanModifyOffer allows only the offer creator.
func CanModifyOffer(offer *models.Offer, requesterID uuid.UUID) bool {
	return offer.UserID == requesterID
}

// CanModifyOrderStatus allows only the business party of the order.
func CanModifyOrderStatus(order *models.Order, requesterID uuid.UUID) bool {
	return order.BusinessUserID == requesterID
}

// CanModifyReview allows only the original reviewer.
func CanModifyReview(review *models.Review, requesterID uuid.UUID) bool {
	return review.ReviewerID == requesterID
}
