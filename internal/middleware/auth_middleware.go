package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

// TokenAuthMiddleware authenticates requests via the Authorization header.
// The token is an opaque key matched exactly against the tokens table;
// both "Token <key>" and "Bearer <key>" schemes are accepted.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid authorization header.")
			c.Abort()
			return
		}
		key := parts[1]

		db, exists := c.Get("db")
		if !exists {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
			c.Abort()
			return
		}
		gormDB := db.(*gorm.DB)

		var token models.Token
		if err := gormDB.Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token.")
			c.Abort()
			return
		}

		c.Set("user_id", token.UserID)
		c.Set("is_staff", token.User.IsStaff)
		c.Next()
	}
}
