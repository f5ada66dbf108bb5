package controllers

import (
	"net/http"
	"spabook-backend/config"
	"spabook-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportController struct{}

type MonthlyRevenueRow struct {
	Month      string  `json:"month"` // e.g. "2026-08"
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`    // after discount, before commission
	Commission float64 `json:"commission"` // platform's cut
	NetProfit  float64 `json:"netProfit"`  // revenue - commission
}

// GetRevenueReport aggregates the owner's completed bookings per month over
// a date range (default: last 6 months).
func (rc ReportController) GetRevenueReport(c *gin.Context) {
	spa, ok := ownerSpa(c)
	if !ok {
		return
	}

	now := time.Now()
	from := now.AddDate(0, -6, 0)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	var rowsOut []MonthlyRevenueRow
	if err := config.DB.Raw(`
        SELECT TO_CHAR(completed_at, 'YYYY-MM') AS month,
               COUNT(*) AS bookings,
               COALESCE(SUM(final_price), 0) AS revenue,
               COALESCE(SUM(commission_amount), 0) AS commission,
               COALESCE(SUM(final_price - commission_amount), 0) AS net_profit
        FROM bookings
        WHERE spa_id = ? AND status = 'COMPLETED' AND deleted_at IS NULL
        AND completed_at >= ? AND completed_at < ?
        GROUP BY TO_CHAR(completed_at, 'YYYY-MM')
        ORDER BY month
    `, spa.ID, from, to).Scan(&rowsOut).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"months": rowsOut,
	})
}
