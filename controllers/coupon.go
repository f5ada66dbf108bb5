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

// CreateCouponInput defines the expected JSON structure for creating a coupon
type CreateCouponInput struct {
	Code            string     `json:"code" binding:"required"`
	DiscountPercent float64    `json:"discountPercent" binding:"required,gt=0"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	MaxRedemptions  *int       `json:"maxRedemptions"`
}

// CreateCoupon issues a coupon. Owners issue spa-scoped coupons (capped at
// 40%), admins issue global ones (capped at 70%).
func CreateCoupon(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var spaID *uuid.UUID
	if role == models.RoleOwner {
		spa, ok := ownerSpa(c)
		if !ok {
			return
		}
		spaID = &spa.ID
	}

	coupon, err := discounts.CreateCoupon(userUUID, role, services.CreateCouponInput{
		Code:            input.Code,
		SpaID:           spaID,
		DiscountPercent: input.DiscountPercent,
		ExpiresAt:       input.ExpiresAt,
		MaxRedemptions:  input.MaxRedemptions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

// GetCoupons lists coupons visible to the caller
func GetCoupons(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var spaID *uuid.UUID
	if role == models.RoleOwner {
		spa, ok := ownerSpa(c)
		if !ok {
			return
		}
		spaID = &spa.ID
	}

	coupons, err := discounts.List(userUUID, role, spaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, coupons)
}

// DeactivateCoupon flips a coupon inactive
func DeactivateCoupon(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	couponUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid coupon ID format")
		return
	}

	if err := discounts.Deactivate(userUUID, role, couponUUID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated successfully"})
}
