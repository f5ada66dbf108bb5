package controllers

import (
	"net/http"
	"strconv"

	"spabook-backend/utils"

	"github.com/gin-gonic/gin"
)

// NearbySpas returns approved spas within a radius of a point, closest
// first. Query params: lat, lng, radius_km (optional).
func NearbySpas(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "lat is required and must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "lng is required and must be a number")
		return
	}

	var radiusKm *float64
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "radius_km must be a number")
			return
		}
		radiusKm = &r
	}

	results, err := geo.Nearby(lat, lng, radiusKm)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
