package controllers

import (
	"errors"
	"net/http"
	"spabook-backend/config"
	"spabook-backend/models"
	"spabook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateSpaInput defines the expected JSON structure for updating a spa
type UpdateSpaInput struct {
	Name                  *string       `json:"name"`
	Description           *string       `json:"description"`
	Address               *string       `json:"address"`
	Phone                 *string       `json:"phone"`
	Latitude              *float64      `json:"latitude"`
	Longitude             *float64      `json:"longitude"`
	WorkingHours          *models.JSONB `json:"workingHours"`
	AutoConfirm           *bool         `json:"autoConfirm"`
	SMSNotifications      *bool         `json:"smsNotifications"`
	WhatsAppNotifications *bool         `json:"whatsappNotifications"`
}

// GetMySpa returns the authenticated owner's spa
func GetMySpa(c *gin.Context) {
	spa, ok := ownerSpa(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, spa)
}

// GetSpa returns a spa by ID (public; unapproved spas are hidden)
func GetSpa(c *gin.Context) {
	spaUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid spa ID format")
		return
	}

	var spa models.Spa
	if err := config.DB.Preload("Services", "is_active = true").
		First(&spa, "id = ? AND is_approved = true", spaUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Spa not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, spa)
}

// UpdateMySpa updates the owner's spa profile and settings
func UpdateMySpa(c *gin.Context) {
	spa, ok := ownerSpa(c)
	if !ok {
		return
	}

	var input UpdateSpaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		spa.Name = *input.Name
	}
	if input.Description != nil {
		spa.Description = *input.Description
	}
	if input.Address != nil {
		spa.Address = *input.Address
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		spa.Phone = *input.Phone
	}
	if input.Latitude != nil {
		if *input.Latitude < -90 || *input.Latitude > 90 {
			utils.RespondWithError(c, http.StatusBadRequest, "Latitude must be between -90 and 90")
			return
		}
		spa.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		if *input.Longitude < -180 || *input.Longitude > 180 {
			utils.RespondWithError(c, http.StatusBadRequest, "Longitude must be between -180 and 180")
			return
		}
		spa.Longitude = input.Longitude
	}
	if input.WorkingHours != nil {
		spa.WorkingHours = *input.WorkingHours
	}
	if input.AutoConfirm != nil {
		spa.AutoConfirm = *input.AutoConfirm
	}
	if input.SMSNotifications != nil {
		spa.SMSNotifications = *input.SMSNotifications
	}
	if input.WhatsAppNotifications != nil {
		spa.WhatsAppNotifications = *input.WhatsAppNotifications
	}

	if err := config.DB.Save(spa).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update spa")
		return
	}

	c.JSON(http.StatusOK, spa)
}

// ListPendingSpas returns spas awaiting approval (admin)
func ListPendingSpas(c *gin.Context) {
	var spas []models.Spa
	if err := config.DB.Where("is_approved = false").Find(&spas).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve spas")
		return
	}
	c.JSON(http.StatusOK, spas)
}

// ApproveSpa marks a spa approved so it can appear in discovery and take
// bookings (admin)
func ApproveSpa(c *gin.Context) {
	spaUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid spa ID format")
		return
	}

	result := config.DB.Model(&models.Spa{}).Where("id = ?", spaUUID).
		UpdateColumn("is_approved", true)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to approve spa")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Spa not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Spa approved successfully"})
}
