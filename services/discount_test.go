package services

import (
	"testing"
	"time"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discountConfig() config.Platform {
	return config.Platform{
		OwnerDiscountCap: 40,
		AdminDiscountCap: 70,
	}
}

func TestCheckCoupon(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("Active coupon passes", func(t *testing.T) {
		c := &models.Coupon{Code: "WELCOME10", IsActive: true, ExpiresAt: &future}
		assert.NoError(t, checkCoupon(c, now))
	})

	t.Run("No expiry passes", func(t *testing.T) {
		c := &models.Coupon{Code: "WELCOME10", IsActive: true}
		assert.NoError(t, checkCoupon(c, now))
	})

	t.Run("Inactive fails validation", func(t *testing.T) {
		c := &models.Coupon{Code: "WELCOME10", IsActive: false}
		var verr *ValidationError
		assert.ErrorAs(t, checkCoupon(c, now), &verr)
	})

	t.Run("Expired fails validation", func(t *testing.T) {
		c := &models.Coupon{Code: "WELCOME10", IsActive: true, ExpiresAt: &past}
		var verr *ValidationError
		assert.ErrorAs(t, checkCoupon(c, now), &verr)
	})

	t.Run("Exhausted is a conflict", func(t *testing.T) {
		limit := 100
		c := &models.Coupon{Code: "WELCOME10", IsActive: true, MaxRedemptions: &limit, CurrentRedemptions: 100}
		var cerr *ConflictError
		assert.ErrorAs(t, checkCoupon(c, now), &cerr)
	})

	t.Run("Below the limit passes", func(t *testing.T) {
		limit := 100
		c := &models.Coupon{Code: "WELCOME10", IsActive: true, MaxRedemptions: &limit, CurrentRedemptions: 99}
		assert.NoError(t, checkCoupon(c, now))
	})
}

func TestCreateCouponCaps(t *testing.T) {
	svc := NewDiscountService(nil, discountConfig())
	issuer := uuid.New()
	spaID := uuid.New()

	t.Run("Owner above cap", func(t *testing.T) {
		_, err := svc.CreateCoupon(issuer, models.RoleOwner, CreateCouponInput{
			Code: "BIG45", SpaID: &spaID, DiscountPercent: 45,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Admin above cap", func(t *testing.T) {
		_, err := svc.CreateCoupon(issuer, models.RoleAdmin, CreateCouponInput{
			Code: "BIG75", DiscountPercent: 75,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Customer may not issue", func(t *testing.T) {
		_, err := svc.CreateCoupon(issuer, models.RoleCustomer, CreateCouponInput{
			Code: "NOPE", DiscountPercent: 10,
		})
		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("Owner coupon needs a spa", func(t *testing.T) {
		_, err := svc.CreateCoupon(issuer, models.RoleOwner, CreateCouponInput{
			Code: "SCOPED", DiscountPercent: 10,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Rejects empty code", func(t *testing.T) {
		_, err := svc.CreateCoupon(issuer, models.RoleAdmin, CreateCouponInput{
			Code: "   ", DiscountPercent: 10,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Rejects non-positive percent", func(t *testing.T) {
		_, err := svc.CreateCoupon(issuer, models.RoleAdmin, CreateCouponInput{
			Code: "FREE", DiscountPercent: 0,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Rejects past expiry", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		_, err := svc.CreateCoupon(issuer, models.RoleAdmin, CreateCouponInput{
			Code: "OLD", DiscountPercent: 10, ExpiresAt: &past,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Rejects zero redemption limit", func(t *testing.T) {
		zero := 0
		_, err := svc.CreateCoupon(issuer, models.RoleAdmin, CreateCouponInput{
			Code: "NONE", DiscountPercent: 10, MaxRedemptions: &zero,
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

// A coupon scoped to another spa must be indistinguishable from a missing
// one, so codes cannot be probed across spas.
func TestValidateScopedCouponReadsAsUnknown(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewDiscountService(gdb, discountConfig())

	ownSpa := uuid.New()
	otherSpa := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "spa_id", "discount_percent", "is_active"}).
			AddRow(uuid.New().String(), "SCOPED10", otherSpa.String(), 10.0, true))

	_, err := svc.Validate(gdb, "scoped10", ownSpa)

	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyConsumesRedemptionAndPrices(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewDiscountService(gdb, discountConfig())
	spaID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "spa_id", "discount_percent", "is_active", "current_redemptions"}).
			AddRow(uuid.New().String(), "WELCOME10", nil, 10.0, true, 3))
	mock.ExpectExec(`UPDATE "coupons"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	coupon, price, err := svc.apply(gdb, "welcome10", spaID, 500000)

	require.NoError(t, err)
	assert.Equal(t, 10.0, coupon.DiscountPercent)
	assert.Equal(t, 450000.0, price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStopsAtValidation(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewDiscountService(gdb, discountConfig())

	// Inactive coupon: no redemption UPDATE may run.
	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "spa_id", "discount_percent", "is_active"}).
			AddRow(uuid.New().String(), "DORMANT", nil, 10.0, false))

	_, _, err := svc.apply(gdb, "DORMANT", uuid.New(), 500000)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem(t *testing.T) {
	t.Run("Consumes one redemption", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewDiscountService(gdb, discountConfig())

		mock.ExpectExec(`UPDATE "coupons"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.redeem(gdb, "WELCOME10"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero rows means exhausted", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewDiscountService(gdb, discountConfig())

		mock.ExpectExec(`UPDATE "coupons"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.redeem(gdb, "WELCOME10")
		var cerr *ConflictError
		assert.ErrorAs(t, err, &cerr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
