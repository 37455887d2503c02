package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/config"
	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	RepeatedPassword string `json:"repeated_password" binding:"required"`
	Type             string `json:"type" binding:"required,oneof=customer business"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user, its profile, and its token in one transaction
// and responds with the token payload.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Password != req.RepeatedPassword {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"repeated_password": "Passwords do not match.",
		})
		return
	}

	if config.IsReservedUsername(req.Username) {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"username": "This username is reserved.",
		})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existingUser models.User
	if result := gormDB.Where("username = ?", req.Username).First(&existingUser); result.Error == nil {
		helpers.RespondWithFieldErrors(c, http.StatusBadRequest, gin.H{
			"username": "A user with that username already exists.",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	var token *models.Token

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.Profile{
			UserID: user.ID,
			Type:   req.Type,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		token, err = helpers.GetOrCreateToken(tx, user.ID)
		return err
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":    token.Key,
		"username": user.Username,
		"email":    user.Email,
		"user_id":  user.ID,
	})
}

// Login checks the credentials and returns the user's token. Bad
// credentials yield a 400, matching the endpoint contract.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Username and password required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid credentials.")
		return
	}

	token, err := helpers.GetOrCreateToken(gormDB, user.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token.Key,
		"username": user.Username,
		"email":    user.Email,
		"user_id":  user.ID,
	})
}
