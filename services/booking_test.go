package services

import (
	"errors"
	"testing"
	"time"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingConfig() config.Platform {
	return config.Platform{
		CommissionRate:        0.10,
		LoyaltyPointsPerVisit: 10,
	}
}

func bookingServiceOver(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	gdb, mock := newMockDB(t)
	cfg := bookingConfig()
	discounts := NewDiscountService(gdb, cfg)
	loyalty := NewLoyaltyService(gdb, cfg)
	return NewBookingService(gdb, cfg, discounts, loyalty), mock
}

func TestCreateRejectsBadTimes(t *testing.T) {
	svc := NewBookingService(nil, bookingConfig(), nil, nil)

	t.Run("Zero time", func(t *testing.T) {
		_, err := svc.Create(uuid.New(), CreateBookingInput{SpaID: uuid.New(), ServiceID: uuid.New()})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Past time", func(t *testing.T) {
		_, err := svc.Create(uuid.New(), CreateBookingInput{
			SpaID:       uuid.New(),
			ServiceID:   uuid.New(),
			ScheduledAt: time.Now().Add(-time.Hour),
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestRescheduleRejectsBadTimes(t *testing.T) {
	svc := NewBookingService(nil, bookingConfig(), nil, nil)

	_, err := svc.Reschedule(uuid.New(), models.RoleCustomer, uuid.New(), time.Now().Add(-time.Hour))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEnsureSlotFree(t *testing.T) {
	spaID := uuid.New()
	start := time.Now().Add(time.Hour)
	end := start.Add(time.Hour)

	t.Run("Free slot passes", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		require.NoError(t, ensureSlotFree(gdb, spaID, nil, uuid.Nil, start, end))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Staff-less request contends with any overlapping booking", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE spa_id = (.+)scheduled_at < (.+)ends_at > `).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := ensureSlotFree(gdb, spaID, nil, uuid.Nil, start, end)
		var cerr *ConflictError
		assert.ErrorAs(t, err, &cerr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Staffed request contends with staff-less bookings too", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		staffID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE spa_id = (.+)staff_id = (.+) OR staff_id IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := ensureSlotFree(gdb, spaID, &staffID, uuid.Nil, start, end)
		var cerr *ConflictError
		assert.ErrorAs(t, err, &cerr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAcceptRequiresPendingStatus(t *testing.T) {
	svc, mock := bookingServiceOver(t)
	owner := uuid.New()
	bookingID := uuid.New()
	spaID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, spaID, uuid.New(), models.BookingCompleted, time.Now()))
	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(spaOwnerRow(spaID, owner))
	mock.ExpectRollback()

	_, err := svc.Accept(owner, models.RoleOwner, bookingID)

	var serr *StateError
	assert.ErrorAs(t, err, &serr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelByStrangerIsForbidden(t *testing.T) {
	svc, mock := bookingServiceOver(t)
	bookingID := uuid.New()
	spaID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, spaID, uuid.New(), models.BookingConfirmed, time.Now().Add(time.Hour)))
	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(spaOwnerRow(spaID, uuid.New()))
	mock.ExpectRollback()

	_, err := svc.Cancel(uuid.New(), models.RoleCustomer, bookingID, "changed my mind")

	var aerr *AuthorizationError
	assert.ErrorAs(t, err, &aerr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Completing a confirmed booking must write the commission snapshot from
// the injected configuration and award loyalty points in the same
// transaction.
func TestCompleteCapturesCommissionAndAwardsLoyalty(t *testing.T) {
	svc, mock := bookingServiceOver(t)
	owner := uuid.New()
	customer := uuid.New()
	bookingID := uuid.New()
	spaID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, spaID, customer, models.BookingConfirmed, time.Now().Add(-2*time.Hour)))
	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(spaOwnerRow(spaID, owner))
	mock.ExpectExec(`UPDATE "bookings" SET (.*)"commission_amount"=(.+)"commission_rate"=(.+)"completed_at"=(.+)"status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "loyalties" SET "points"=points \+ \$1`).
		WithArgs(10, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := svc.Complete(owner, models.RoleOwner, bookingID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, booking.Status)
	assert.Equal(t, 0.10, booking.CommissionRate)
	assert.Equal(t, 45000.0, booking.CommissionAmount)
	require.NotNil(t, booking.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed loyalty award must roll the whole completion back; a completed
// booking without its point award would be a half-applied transition.
func TestCompleteRollsBackWhenLoyaltyAwardFails(t *testing.T) {
	svc, mock := bookingServiceOver(t)
	owner := uuid.New()
	bookingID := uuid.New()
	spaID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, spaID, uuid.New(), models.BookingConfirmed, time.Now().Add(-2*time.Hour)))
	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(spaOwnerRow(spaID, owner))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "loyalties"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Complete(owner, models.RoleOwner, bookingID)

	var serr *StorageError
	assert.ErrorAs(t, err, &serr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteBeforeStartIsRejected(t *testing.T) {
	svc, mock := bookingServiceOver(t)
	owner := uuid.New()
	bookingID := uuid.New()
	spaID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, spaID, uuid.New(), models.BookingConfirmed, time.Now().Add(2*time.Hour)))
	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(spaOwnerRow(spaID, owner))
	mock.ExpectRollback()

	_, err := svc.Complete(owner, models.RoleOwner, bookingID)

	var serr *StateError
	assert.ErrorAs(t, err, &serr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelCompletedIsRejected(t *testing.T) {
	svc, mock := bookingServiceOver(t)
	customer := uuid.New()
	bookingID := uuid.New()
	spaID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, spaID, customer, models.BookingCompleted, time.Now().Add(-time.Hour)))
	mock.ExpectQuery(`SELECT (.+) FROM "spas"`).
		WillReturnRows(spaOwnerRow(spaID, uuid.New()))
	mock.ExpectRollback()

	_, err := svc.Cancel(customer, models.RoleCustomer, bookingID, "")

	var serr *StateError
	assert.ErrorAs(t, err, &serr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireOperator(t *testing.T) {
	owner := uuid.New()
	spa := &models.Spa{OwnerID: owner}

	assert.NoError(t, requireOperator(owner, models.RoleOwner, spa))
	assert.NoError(t, requireOperator(uuid.New(), models.RoleAdmin, spa))

	err := requireOperator(uuid.New(), models.RoleOwner, spa)
	var aerr *AuthorizationError
	assert.ErrorAs(t, err, &aerr)
}

func TestRequireParticipant(t *testing.T) {
	owner := uuid.New()
	customer := uuid.New()
	spa := &models.Spa{OwnerID: owner}
	booking := &models.Booking{CustomerID: customer}

	assert.NoError(t, requireParticipant(customer, models.RoleCustomer, booking, spa))
	assert.NoError(t, requireParticipant(owner, models.RoleOwner, booking, spa))
	assert.NoError(t, requireParticipant(uuid.New(), models.RoleAdmin, booking, spa))

	err := requireParticipant(uuid.New(), models.RoleCustomer, booking, spa)
	var aerr *AuthorizationError
	assert.ErrorAs(t, err, &aerr)
}

func TestBookingLive(t *testing.T) {
	assert.True(t, (&models.Booking{Status: models.BookingPending}).Live())
	assert.True(t, (&models.Booking{Status: models.BookingConfirmed}).Live())
	assert.False(t, (&models.Booking{Status: models.BookingCompleted}).Live())
	assert.False(t, (&models.Booking{Status: models.BookingCancelled}).Live())
}

func bookingRow(id, spaID, customerID uuid.UUID, status string, scheduledAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "spa_id", "service_id", "customer_id", "status", "scheduled_at", "ends_at", "duration", "base_price", "final_price"}).
		AddRow(id.String(), spaID.String(), uuid.New().String(), customerID.String(), status, scheduledAt, scheduledAt.Add(time.Hour), 60, 500000.0, 450000.0)
}

func spaOwnerRow(id, ownerID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "name", "is_approved", "auto_confirm"}).
		AddRow(id.String(), ownerID.String(), "Lotus Spa", true, true)
}
