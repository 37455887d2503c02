package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraemer/craftmarket/internal/models"
)

func TestCreateOrderSnapshotsDetail(t *testing.T) {
	r, db := setupTest(t)
	biz, _ := createUser(t, db, "biz", models.ProfileTypeBusiness)
	cust, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)

	data := parseJSON(t, w)
	assert.Equal(t, cust.ID.String(), data["customer_user"])
	assert.Equal(t, biz.ID.String(), data["business_user"])
	assert.Equal(t, "basic", data["offer_type"])
	assert.Equal(t, float64(100), data["price"])
	assert.Equal(t, float64(5), data["delivery_time_in_days"])
	assert.Equal(t, "in_progress", data["status"])
}

func TestOrderSnapshotSurvivesDetailMutation(t *testing.T) {
	r, db := setupTest(t)
	biz, _ := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)
	orderID := parseJSON(t, w)["id"].(string)

	// repricing the detail afterwards must not touch the order
	require.NoError(t, db.Model(&models.OfferDetail{}).
		Where("id = ?", offer.Details[0].ID).
		Updates(map[string]interface{}{"price": 999, "delivery_time_in_days": 50}).Error)

	w = performRequest(r, http.MethodGet, "/api/orders/"+orderID, custKey, nil)
	requireStatus(t, w, http.StatusOK)

	data := parseJSON(t, w)
	assert.Equal(t, float64(100), data["price"])
	assert.Equal(t, float64(5), data["delivery_time_in_days"])
	assert.Equal(t, "in_progress", data["status"])
}

func TestCreateOrderRequiresCustomerProfile(t *testing.T) {
	r, db := setupTest(t)
	biz, bizKey := createUser(t, db, "biz", models.ProfileTypeBusiness)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", bizKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusForbidden)
}

func TestCreateOrderUnknownDetail(t *testing.T) {
	r, db := setupTest(t)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": "6b97cdf5-21b5-4f0e-b421-9df212a63b59",
	})
	requireStatus(t, w, http.StatusNotFound)

	w = performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": "not-a-uuid",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestListOrdersOnlyForParticipants(t *testing.T) {
	r, db := setupTest(t)
	biz, bizKey := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	_, bystanderKey := createUser(t, db, "bystander", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)

	w = performRequest(r, http.MethodGet, "/api/orders", custKey, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, parseJSONList(t, w), 1)

	w = performRequest(r, http.MethodGet, "/api/orders", bizKey, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, parseJSONList(t, w), 1)

	w = performRequest(r, http.MethodGet, "/api/orders", bystanderKey, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, parseJSONList(t, w), 0)
}

func TestUpdateOrderStatusByBusiness(t *testing.T) {
	r, db := setupTest(t)
	biz, bizKey := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)
	orderID := parseJSON(t, w)["id"].(string)

	w = performRequest(r, http.MethodPatch, "/api/orders/"+orderID, bizKey, map[string]interface{}{
		"status": "completed",
	})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "completed", parseJSON(t, w)["status"])

	var order models.Order
	require.NoError(t, db.Where("id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestUpdateOrderStatusForbiddenForCustomer(t *testing.T) {
	r, db := setupTest(t)
	biz, _ := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)
	orderID := parseJSON(t, w)["id"].(string)

	w = performRequest(r, http.MethodPatch, "/api/orders/"+orderID, custKey, map[string]interface{}{
		"status": "completed",
	})
	requireStatus(t, w, http.StatusForbidden)
}

func TestUpdateOrderStatusRejectsExtraFields(t *testing.T) {
	r, db := setupTest(t)
	biz, bizKey := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)
	orderID := parseJSON(t, w)["id"].(string)

	w = performRequest(r, http.MethodPatch, "/api/orders/"+orderID, bizKey, map[string]interface{}{
		"status": "completed",
		"price":  1,
	})
	requireStatus(t, w, http.StatusBadRequest)

	w = performRequest(r, http.MethodPatch, "/api/orders/"+orderID, bizKey, map[string]interface{}{
		"status": "done",
	})
	requireStatus(t, w, http.StatusBadRequest)

	var order models.Order
	require.NoError(t, db.Where("id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
}

func TestDeleteOrderStaffOnly(t *testing.T) {
	r, db := setupTest(t)
	biz, bizKey := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	_, staffKey := createStaffUser(t, db, "admin")
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
		"offer_detail_id": offer.Details[0].ID.String(),
	})
	requireStatus(t, w, http.StatusCreated)
	orderID := parseJSON(t, w)["id"].(string)

	w = performRequest(r, http.MethodDelete, "/api/orders/"+orderID, bizKey, nil)
	requireStatus(t, w, http.StatusForbidden)

	w = performRequest(r, http.MethodDelete, "/api/orders/"+orderID, staffKey, nil)
	requireStatus(t, w, http.StatusNoContent)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)

	w = performRequest(r, http.MethodDelete, "/api/orders/"+orderID, staffKey, nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestOrderCounts(t *testing.T) {
	r, db := setupTest(t)
	biz, bizKey := createUser(t, db, "biz", models.ProfileTypeBusiness)
	_, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)
	offer := seedOffer(t, db, biz.ID, "Web Design", []float64{100, 200, 500}, []int{5, 7, 10})

	var orderIDs []string
	for i := 0; i < 3; i++ {
		w := performRequest(r, http.MethodPost, "/api/orders", custKey, map[string]interface{}{
			"offer_detail_id": offer.Details[i].ID.String(),
		})
		requireStatus(t, w, http.StatusCreated)
		orderIDs = append(orderIDs, parseJSON(t, w)["id"].(string))
	}

	w := performRequest(r, http.MethodPatch, "/api/orders/"+orderIDs[0], bizKey, map[string]interface{}{
		"status": "completed",
	})
	requireStatus(t, w, http.StatusOK)

	w = performRequest(r, http.MethodGet, "/api/order-count/"+biz.ID.String(), custKey, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(2), parseJSON(t, w)["order_count"])

	w = performRequest(r, http.MethodGet, "/api/completed-order-count/"+biz.ID.String(), custKey, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), parseJSON(t, w)["completed_order_count"])
}

func TestOrderCountUnknownBusiness(t *testing.T) {
	r, db := setupTest(t)
	cust, custKey := createUser(t, db, "cust", models.ProfileTypeCustomer)

	// a customer user is not a business, counts must 404
	w := performRequest(r, http.MethodGet, "/api/order-count/"+cust.ID.String(), custKey, nil)
	requireStatus(t, w, http.StatusNotFound)

	w = performRequest(r, http.MethodGet, "/api/order-count/6b97cdf5-21b5-4f0e-b421-9df212a63b59", custKey, nil)
	requireStatus(t, w, http.StatusNotFound)

	w = performRequest(r, http.MethodGet, "/api/order-count/not-a-uuid", custKey, nil)
	requireStatus(t, w, http.StatusBadRequest)
}
