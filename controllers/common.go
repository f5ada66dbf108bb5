package controllers

import (
	"errors"
	"net/http"

	"spabook-backend/config"
	"spabook-backend/models"
	"spabook-backend/services"
	"spabook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	discounts *services.DiscountService
	loyalty   *services.LoyaltyService
	bookings  *services.BookingService
	ledger    *services.LedgerService
	geo       *services.GeoService
	notifier  *services.Notifier
)

// Init wires the service layer. Must run before the router starts.
func Init(db *gorm.DB, cfg config.Platform) {
	discounts = services.NewDiscountService(db, cfg)
	loyalty = services.NewLoyaltyService(db, cfg)
	bookings = services.NewBookingService(db, cfg, discounts, loyalty)
	ledger = services.NewLedgerService(db, cfg)
	geo = services.NewGeoService(db, cfg)
	notifier = services.NewNotifier(db)
}

// Notifier exposes the dispatcher so main can start its scheduler.
func Notifier() *services.Notifier {
	return notifier
}

// currentUser extracts the authenticated principal set by AuthMiddleware.
func currentUser(c *gin.Context) (uuid.UUID, string, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, "", false
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, "", false
	}
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return userUUID, roleStr, true
}

// ownerSpa resolves the authenticated owner's spa.
func ownerSpa(c *gin.Context) (*models.Spa, bool) {
	userUUID, _, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	var spa models.Spa
	if err := config.DB.First(&spa, "owner_id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No spa registered for this owner")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &spa, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		conflictErr   *services.ConflictError
		stateErr      *services.StateError
		notFoundErr   *services.NotFoundError
		authzErr      *services.AuthorizationError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflictErr):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &stateErr):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &notFoundErr):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &authzErr):
		utils.RespondWithError(c, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Storage error")
	}
}
