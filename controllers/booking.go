// controllers/booking.go
package controllers

import (
	"net/http"
	"time"

	"spabook-backend/models"
	"spabook-backend/services"
	"spabook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateBookingInput defines the expected JSON structure for creating a booking
type CreateBookingInput struct {
	SpaID       uuid.UUID  `json:"spaId" binding:"required"`
	ServiceID   uuid.UUID  `json:"serviceId" binding:"required"`
	StaffID     *uuid.UUID `json:"staffId"`
	ScheduledAt time.Time  `json:"scheduledAt" binding:"required"`
	CouponCode  string     `json:"couponCode"`
}

// RescheduleInput carries the new start time
type RescheduleInput struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

// CancelInput carries an optional cancellation reason
type CancelInput struct {
	Reason string `json:"reason"`
}

// CreateBooking books a slot for the authenticated customer
func CreateBooking(c *gin.Context) {
	userUUID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bookings.Create(userUUID, services.CreateBookingInput{
		SpaID:       input.SpaID,
		ServiceID:   input.ServiceID,
		StaffID:     input.StaffID,
		ScheduledAt: input.ScheduledAt,
		CouponCode:  input.CouponCode,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if booking.Status == models.BookingConfirmed {
		notifier.BookingStatusChanged(booking, "booking_confirmed")
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists bookings for the authenticated user: customers see
// their own, owners see their spa's. Optional ?status= filter.
func GetBookings(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}
	status := c.Query("status")

	var (
		result []models.Booking
		err    error
	)
	if role == models.RoleOwner {
		spa, ok := ownerSpa(c)
		if !ok {
			return
		}
		result, err = bookings.ForSpa(spa.ID, status)
	} else {
		result, err = bookings.ForCustomer(userUUID, status)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBooking retrieves a specific booking by ID
func GetBooking(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookings.Get(userUUID, role, bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// AcceptBooking confirms a pending booking (spa operator)
func AcceptBooking(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookings.Accept(userUUID, role, bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifier.BookingStatusChanged(booking, "booking_confirmed")

	c.JSON(http.StatusOK, booking)
}

// RejectBooking cancels a pending booking (spa operator)
func RejectBooking(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input CancelInput
	_ = c.ShouldBindJSON(&input)
	reason := input.Reason
	if reason == "" {
		reason = "Rejected by spa"
	}

	booking, err := bookings.Reject(userUUID, role, bookingUUID, reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifier.BookingStatusChanged(booking, "booking_cancelled")

	c.JSON(http.StatusOK, booking)
}

// CompleteBooking finishes a confirmed booking, accruing commission and
// loyalty points (spa operator)
func CompleteBooking(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookings.Complete(userUUID, role, bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifier.BookingStatusChanged(booking, "booking_completed")

	c.JSON(http.StatusOK, booking)
}

// RescheduleBooking moves a live booking to a new start time
func RescheduleBooking(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bookings.Reschedule(userUUID, role, bookingUUID, input.ScheduledAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking terminates a live booking (customer or spa operator)
func CancelBooking(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input CancelInput
	_ = c.ShouldBindJSON(&input)

	booking, err := bookings.Cancel(userUUID, role, bookingUUID, input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifier.BookingStatusChanged(booking, "booking_cancelled")

	c.JSON(http.StatusOK, booking)
}
