package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/config"
	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
	"github.com/mkraemer/craftmarket/internal/server"
)

const testPassword = "pw123456"

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateModels(db))

	r := gin.New()
	server.SetupRoutes(r, db)
	return r, db
}

// createUser inserts a user with the given profile type ("business",
// "customer", or "" for none) and returns the user plus their token key.
func createUser(t *testing.T, db *gorm.DB, username, profileType string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, db.Create(&user).Error)

	if profileType != "" {
		profile := models.Profile{
			UserID: user.ID,
			Type:   profileType,
		}
		require.NoError(t, db.Create(&profile).Error)
	}

	token, err := helpers.GetOrCreateToken(db, user.ID)
	require.NoError(t, err)

	return &user, token.Key
}

func createStaffUser(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()
	user, key := createUser(t, db, username, "")
	require.NoError(t, db.Model(user).Update("is_staff", true).Error)
	return user, key
}

// seedOffer creates an offer with one detail per (price, delivery) pair,
// offer types basic/standard/premium in order.
func seedOffer(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, prices []float64, deliveries []int) *models.Offer {
	t.Helper()
	require.Equal(t, len(prices), len(deliveries))

	offer := models.Offer{
		UserID:      userID,
		Title:       title,
		Description: "seeded offer",
	}
	require.NoError(t, db.Create(&offer).Error)

	offerTypes := []string{"basic", "standard", "premium", "extra", "deluxe"}
	for i := range prices {
		detail := models.OfferDetail{
			OfferID:            offer.ID,
			Title:              offerTypes[i],
			Revisions:          2,
			DeliveryTimeInDays: deliveries[i],
			Price:              prices[i],
			Features:           datatypes.NewJSONSlice([]string{"Feature A"}),
			OfferType:          offerTypes[i],
		}
		require.NoError(t, db.Create(&detail).Error)
		offer.Details = append(offer.Details, detail)
	}
	return &offer
}

func performRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	return data
}

func parseJSONList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var data []interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	return data
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, w.Code, "unexpected status, body: %s", w.Body.String())
}
