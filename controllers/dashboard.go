package controllers

import (
	"fmt"
	"net/http"
	"spabook-backend/config"
	"spabook-backend/models"
	"spabook-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

type TodayBooking struct {
	CustomerName string `json:"customerName"`
	ServiceName  string `json:"serviceName"`
	Time         string `json:"time"` // e.g. "14:30"
	Status       string `json:"status"`
}

type RecentVisit struct {
	CustomerName string `json:"customerName"`
	ServiceName  string `json:"serviceName"`
	VisitDate    string `json:"visitDate"` // e.g. "Today", "Yesterday"
}

// GetDashboardOverview summarizes the owner's spa: booking counts, monthly
// completed revenue, available profit and today's schedule.
func GetDashboardOverview(c *gin.Context) {
	spa, ok := ownerSpa(c)
	if !ok {
		return
	}

	// Pending bookings waiting for acceptance
	var pendingBookings int64
	config.DB.Model(&models.Booking{}).
		Where("spa_id = ? AND status = ?", spa.ID, models.BookingPending).
		Count(&pendingBookings)

	// Upcoming confirmed bookings
	var upcomingBookings int64
	config.DB.Model(&models.Booking{}).
		Where("spa_id = ? AND status = ? AND scheduled_at >= ?", spa.ID, models.BookingConfirmed, time.Now()).
		Count(&upcomingBookings)

	// This Month's completed revenue (after discount, before commission)
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue float64
	config.DB.Model(&models.Booking{}).
		Where("spa_id = ? AND status = ? AND completed_at >= ? AND deleted_at IS NULL", spa.ID, models.BookingCompleted, firstOfMonth).
		Select("COALESCE(SUM(final_price), 0)").Scan(&monthlyRevenue)

	// Withdrawable balance
	availableProfit, err := ledger.AvailableProfit(spa.OwnerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Today's schedule
	dayStart := utils.BeginningOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	var todayBookings []TodayBooking
	config.DB.Raw(`
        SELECT u.name AS customer_name, s.name AS service_name,
               TO_CHAR(b.scheduled_at, 'HH24:MI') AS time, b.status
        FROM bookings b
        JOIN users u ON u.id = b.customer_id
        JOIN services s ON s.id = b.service_id
        WHERE b.spa_id = ? AND b.deleted_at IS NULL
        AND b.status IN ('PENDING', 'CONFIRMED')
        AND b.scheduled_at >= ? AND b.scheduled_at < ?
        ORDER BY b.scheduled_at
    `, spa.ID, dayStart, dayEnd).Scan(&todayBookings)

	// Recent completed visits
	var recentVisits []RecentVisit
	rows, err := config.DB.Raw(`
        SELECT u.name, s.name, b.completed_at
        FROM bookings b
        JOIN users u ON u.id = b.customer_id
        JOIN services s ON s.id = b.service_id
        WHERE b.spa_id = ? AND b.status = 'COMPLETED' AND b.deleted_at IS NULL
        ORDER BY b.completed_at DESC
        LIMIT 5
    `, spa.ID).Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var customerName, serviceName string
			var completedAt time.Time
			if err := rows.Scan(&customerName, &serviceName, &completedAt); err != nil {
				continue
			}

			daysAgo := utils.DaysBetween(completedAt, now)
			var visitDate string
			switch daysAgo {
			case 0:
				visitDate = "Today"
			case 1:
				visitDate = "Yesterday"
			default:
				visitDate = fmt.Sprintf("%d days ago", daysAgo)
			}
			recentVisits = append(recentVisits, RecentVisit{
				CustomerName: customerName,
				ServiceName:  serviceName,
				VisitDate:    visitDate,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"pendingBookings":  pendingBookings,
		"upcomingBookings": upcomingBookings,
		"monthlyRevenue":   monthlyRevenue,
		"availableProfit":  availableProfit,
		"todayBookings":    todayBookings,
		"recentVisits":     recentVisits,
	})
}
