package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLoyalty returns the authenticated customer's points and derived rank
func GetLoyalty(c *gin.Context) {
	userUUID, _, ok := currentUser(c)
	if !ok {
		return
	}

	record, rank, err := loyalty.Get(userUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points": record.Points,
		"rank":   rank,
	})
}
