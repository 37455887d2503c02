package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Location     *string `json:"location"`
	Tel          *string `json:"tel"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours"`
	Email        *string `json:"email"`
}

// profileDetailResponse builds the GET/PATCH response for a single profile.
// Customer profiles expose only the name fields; the business-only fields
// are still present but always empty strings, never null.
func profileDetailResponse(profile *models.Profile) gin.H {
	data := gin.H{
		"user":       profile.UserID,
		"username":   profile.User.Username,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"file":       profile.File,
		"type":       profile.Type,
		"email":      profile.User.Email,
		"created_at": helpers.FormatTimestamp(profile.User.CreatedAt),
	}

	if profile.Type == models.ProfileTypeBusiness {
		data["location"] = profile.Location
		data["tel"] = profile.Tel
		data["description"] = profile.Description
		data["working_hours"] = profile.WorkingHours
	} else {
		data["location"] = ""
		data["tel"] = ""
		data["description"] = ""
		data["working_hours"] = ""
		data["uploaded_at"] = helpers.FormatTimestamp(profile.User.CreatedAt)
	}

	return data
}

func GetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var profile models.Profile
	if err := gormDB.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Profile not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving profile.")
		return
	}

	c.JSON(http.StatusOK, profileDetailResponse(&profile))
}

func UpdateProfile(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	requesterID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	if !helpers.CanModifyProfile(targetID, requesterID.(uuid.UUID)) {
		helpers.RespondWithError(c, http.StatusForbidden, "You may only edit your own profile.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var profile models.Profile
	if err := gormDB.Preload("User").Where("user_id = ?", targetID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Profile not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving profile.")
		return
	}

	var req UpdateProfileRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := bindProfileForm(c, &req); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}

		if fileHeader, err := c.FormFile("file"); err == nil {
			path, err := helpers.UploadFile(c, fileHeader, "profile_images")
			if err != nil {
				helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
				return
			}
			if profile.File != "" {
				if err := helpers.DeleteFile(profile.File); err != nil {
					fmt.Printf("Error deleting old profile file: %v\n", err)
				}
			}
			profile.File = path
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
			return
		}
	}

	applyProfilePatch(&profile, &req)

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		if req.Email != nil && *req.Email != "" {
			profile.User.Email = *req.Email
			return tx.Save(&profile.User).Error
		}
		return nil
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	c.JSON(http.StatusOK, profileDetailResponse(&profile))
}

// bindProfileForm reads the patch fields out of a multipart form; only
// fields present in the form are set.
func bindProfileForm(c *gin.Context, req *UpdateProfileRequest) error {
	if _, err := c.MultipartForm(); err != nil {
		return err
	}
	fields := map[string]**string{
		"first_name":    &req.FirstName,
		"last_name":     &req.LastName,
		"location":      &req.Location,
		"tel":           &req.Tel,
		"description":   &req.Description,
		"working_hours": &req.WorkingHours,
		"email":         &req.Email,
	}
	for name, target := range fields {
		if value, ok := c.GetPostForm(name); ok {
			v := value
			*target = &v
		}
	}
	return nil
}

// applyProfilePatch writes the supplied fields onto the profile. Customer
// profiles only carry name fields; the business-only fields are ignored
// for them.
func applyProfilePatch(profile *models.Profile, req *UpdateProfileRequest) {
	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}

	if profile.Type != models.ProfileTypeBusiness {
		return
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.Tel != nil {
		profile.Tel = *req.Tel
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.WorkingHours != nil {
		profile.WorkingHours = *req.WorkingHours
	}
}

func ListBusinessProfiles(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var profiles []models.Profile
	if err := gormDB.Preload("User").Where("type = ?", models.ProfileTypeBusiness).Find(&profiles).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving profiles.")
		return
	}

	results := make([]gin.H, 0, len(profiles))
	for _, profile := range profiles {
		results = append(results, gin.H{
			"user":          profile.UserID,
			"username":      profile.User.Username,
			"first_name":    profile.FirstName,
			"last_name":     profile.LastName,
			"file":          profile.File,
			"location":      profile.Location,
			"tel":           profile.Tel,
			"description":   profile.Description,
			"working_hours": profile.WorkingHours,
			"type":          profile.Type,
		})
	}

	c.JSON(http.StatusOK, results)
}

func ListCustomerProfiles(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var profiles []models.Profile
	if err := gormDB.Preload("User").Where("type = ?", models.ProfileTypeCustomer).Find(&profiles).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving profiles.")
		return
	}

	results := make([]gin.H, 0, len(profiles))
	for _, profile := range profiles {
		results = append(results, gin.H{
			"user":        profile.UserID,
			"username":    profile.User.Username,
			"first_name":  profile.FirstName,
			"last_name":   profile.LastName,
			"file":        profile.File,
			"uploaded_at": helpers.FormatTimestamp(profile.User.CreatedAt),
			"type":        profile.Type,
		})
	}

	c.JSON(http.StatusOK, results)
}
