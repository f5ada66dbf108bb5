package controllers

import (
	"net/http"

	"spabook-backend/models"
	"spabook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestPayoutInput defines the expected JSON structure for a payout request
type RequestPayoutInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Notes  string  `json:"notes"`
}

// ReviewPayoutInput carries the admin decision
type ReviewPayoutInput struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}

// GetBalance returns the owner's available profit
func GetBalance(c *gin.Context) {
	userUUID, _, ok := currentUser(c)
	if !ok {
		return
	}

	balance, err := ledger.AvailableProfit(userUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availableProfit": balance})
}

// RequestPayout opens a payout request against the owner's balance
func RequestPayout(c *gin.Context) {
	userUUID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input RequestPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payout, err := ledger.RequestPayout(userUUID, input.Amount, input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

// GetPayouts lists payouts: owners see their own, admins see all
// (optional ?status= filter for admins)
func GetPayouts(c *gin.Context) {
	userUUID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var (
		payouts []models.Payout
		err     error
	)
	if role == models.RoleAdmin {
		payouts, err = ledger.All(c.Query("status"))
	} else {
		payouts, err = ledger.ForOwner(userUUID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payouts)
}

// ReviewPayout approves or rejects a requested payout (admin)
func ReviewPayout(c *gin.Context) {
	payoutUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payout ID format")
		return
	}

	var input ReviewPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payout, err := ledger.Review(payoutUUID, input.Approved, input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifier.PayoutReviewed(payout)

	c.JSON(http.StatusOK, payout)
}

// CompletePayout marks an approved payout transferred (admin)
func CompletePayout(c *gin.Context) {
	payoutUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payout ID format")
		return
	}

	payout, err := ledger.CompletePayout(payoutUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifier.PayoutReviewed(payout)

	c.JSON(http.StatusOK, payout)
}
