package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spabook-backend/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func TestDashboardOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newMockDB(t)
	config.DB = gdb
	Init(gdb, config.Platform{CommissionRate: 0.10})

	ownerID := uuid.New()
	spaID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(spaID.String(), ownerID.String(), "Lotus Spa"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(final_price\), 0\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1500000.0))
	mock.ExpectQuery(`SELECT COALESCE\(\(`).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(405000.0))
	mock.ExpectQuery(`TO_CHAR\(b.scheduled_at`).
		WillReturnRows(sqlmock.NewRows([]string{"customer_name", "service_name", "time", "status"}).
			AddRow("Cara", "Hot Stone", "14:30", "CONFIRMED"))
	// Second row carries a value that cannot scan as a timestamp and must
	// be dropped from the overview, not rendered as a zero-value visit.
	mock.ExpectQuery(`LIMIT 5`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "name", "completed_at"}).
			AddRow("Alice", "Massage", time.Now()).
			AddRow("Bob", "Facial", "not a timestamp"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	c.Set("userId", ownerID.String())
	c.Set("role", "owner")

	GetDashboardOverview(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		PendingBookings  int64          `json:"pendingBookings"`
		UpcomingBookings int64          `json:"upcomingBookings"`
		MonthlyRevenue   float64        `json:"monthlyRevenue"`
		AvailableProfit  float64        `json:"availableProfit"`
		TodayBookings    []TodayBooking `json:"todayBookings"`
		RecentVisits     []RecentVisit  `json:"recentVisits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, int64(2), body.PendingBookings)
	assert.Equal(t, int64(3), body.UpcomingBookings)
	assert.Equal(t, 1500000.0, body.MonthlyRevenue)
	assert.Equal(t, 405000.0, body.AvailableProfit)
	require.Len(t, body.TodayBookings, 1)
	assert.Equal(t, "Cara", body.TodayBookings[0].CustomerName)
	require.Len(t, body.RecentVisits, 1)
	assert.Equal(t, "Alice", body.RecentVisits[0].CustomerName)
	assert.Equal(t, "Today", body.RecentVisits[0].VisitDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
