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

// CreateFeedbackInput defines the expected JSON structure for rating a booking
type CreateFeedbackInput struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment"`
}

// CreateFeedback lets a customer rate one of their completed bookings
func CreateFeedback(c *gin.Context) {
	userUUID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, "id = ? AND customer_id = ?", input.BookingID, userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if booking.Status != models.BookingCompleted {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Only completed bookings can be rated")
		return
	}

	var existing models.Feedback
	if err := config.DB.Where("booking_id = ?", booking.ID).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Booking already has feedback")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	feedback := models.Feedback{
		BookingID:  booking.ID,
		SpaID:      booking.SpaID,
		CustomerID: userUUID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	if err := config.DB.Create(&feedback).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create feedback")
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetSpaFeedback lists feedback for a spa. Feedback whose booking was since
// cancelled is filtered out at query time rather than deleted.
func GetSpaFeedback(c *gin.Context) {
	spaUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid spa ID format")
		return
	}

	var feedback []models.Feedback
	if err := config.DB.
		Joins("JOIN bookings ON bookings.id = feedbacks.booking_id").
		Where("feedbacks.spa_id = ? AND bookings.status <> ?", spaUUID, models.BookingCancelled).
		Order("feedbacks.created_at DESC").
		Find(&feedback).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve feedback")
		return
	}

	c.JSON(http.StatusOK, feedback)
}
