package services

import (
	"errors"
	"time"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountService struct {
	db  *gorm.DB
	cfg config.Platform
}

func NewDiscountService(db *gorm.DB, cfg config.Platform) *DiscountService {
	return &DiscountService{db: db, cfg: cfg}
}

type CreateCouponInput struct {
	Code            string
	SpaID           *uuid.UUID
	DiscountPercent float64
	ExpiresAt       *time.Time
	MaxRedemptions  *int
}

// CreateCoupon enforces the per-role discount cap at creation time. Owner
// coupons are scoped to the owner's spa; admin coupons are global.
func (s *DiscountService) CreateCoupon(issuerID uuid.UUID, issuerRole string, in CreateCouponInput) (*models.Coupon, error) {
	code := models.NormalizeCouponCode(in.Code)
	if code == "" {
		return nil, validationf("coupon code is required")
	}
	if in.DiscountPercent <= 0 {
		return nil, validationf("discount percent must be positive")
	}

	var maxPercent float64
	switch issuerRole {
	case models.RoleOwner:
		maxPercent = s.cfg.OwnerDiscountCap
		if in.SpaID == nil {
			return nil, validationf("owner coupons must be scoped to a spa")
		}
	case models.RoleAdmin:
		maxPercent = s.cfg.AdminDiscountCap
	default:
		return nil, authzf("role %s may not issue coupons", issuerRole)
	}
	if in.DiscountPercent > maxPercent {
		return nil, validationf("discount percent %.2f exceeds the %s cap of %.0f%%", in.DiscountPercent, issuerRole, maxPercent)
	}

	if in.MaxRedemptions != nil && *in.MaxRedemptions <= 0 {
		return nil, validationf("max redemptions must be positive when set")
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(time.Now()) {
		return nil, validationf("expiry must be in the future")
	}

	coupon := models.Coupon{
		Code:            code,
		SpaID:           in.SpaID,
		IssuerID:        issuerID,
		IssuerRole:      issuerRole,
		DiscountPercent: in.DiscountPercent,
		ExpiresAt:       in.ExpiresAt,
		MaxRedemptions:  in.MaxRedemptions,
		IsActive:        true,
	}
	if err := s.db.Create(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("coupon code %s already exists", code)
		}
		return nil, storagef("failed to create coupon: %v", err)
	}
	return &coupon, nil
}

// Validate checks a code against a spa's scope without consuming a
// redemption. Coupons scoped to another spa read as unknown.
func (s *DiscountService) Validate(tx *gorm.DB, code string, spaID uuid.UUID) (*models.Coupon, error) {
	code = models.NormalizeCouponCode(code)

	var coupon models.Coupon
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("coupon %s not found", code)
		}
		return nil, storagef("failed to load coupon: %v", err)
	}
	if coupon.SpaID != nil && *coupon.SpaID != spaID {
		return nil, notFoundf("coupon %s not found", code)
	}
	if err := checkCoupon(&coupon, time.Now()); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// checkCoupon applies the validation taxonomy to a loaded coupon.
func checkCoupon(coupon *models.Coupon, now time.Time) error {
	if !coupon.IsActive {
		return validationf("coupon %s is inactive", coupon.Code)
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return validationf("coupon %s expired", coupon.Code)
	}
	if coupon.MaxRedemptions != nil && coupon.CurrentRedemptions >= *coupon.MaxRedemptions {
		return conflictf("coupon %s is exhausted", coupon.Code)
	}
	return nil
}

// redeem consumes one redemption inside the caller's transaction. The bound
// check lives in the UPDATE predicate so the check and the increment are one
// atomic statement; a zero row count means the coupon was exhausted (or
// deactivated) between validation and redemption.
func (s *DiscountService) redeem(tx *gorm.DB, code string) error {
	res := tx.Model(&models.Coupon{}).
		Where("code = ? AND is_active = true", code).
		Where("max_redemptions IS NULL OR current_redemptions < max_redemptions").
		UpdateColumn("current_redemptions", gorm.Expr("current_redemptions + 1"))
	if res.Error != nil {
		return storagef("failed to redeem coupon: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return conflictf("coupon %s is exhausted", code)
	}
	return nil
}

// apply validates and redeems a code inside the caller's transaction and
// returns the coupon with the discounted price. Called from the booking
// creation path so the redemption commits or rolls back with the booking.
func (s *DiscountService) apply(tx *gorm.DB, code string, spaID uuid.UUID, basePrice float64) (*models.Coupon, float64, error) {
	coupon, err := s.Validate(tx, code, spaID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.redeem(tx, coupon.Code); err != nil {
		return nil, 0, err
	}
	return coupon, FinalPrice(basePrice, coupon.DiscountPercent), nil
}

// List returns coupons visible to the issuer: owners see their spa's,
// admins see everything.
func (s *DiscountService) List(issuerID uuid.UUID, issuerRole string, spaID *uuid.UUID) ([]models.Coupon, error) {
	q := s.db.Order("created_at DESC")
	switch issuerRole {
	case models.RoleAdmin:
	case models.RoleOwner:
		if spaID == nil {
			return nil, validationf("owner coupon listing requires a spa")
		}
		q = q.Where("spa_id = ?", *spaID)
	default:
		return nil, authzf("role %s may not list coupons", issuerRole)
	}
	var coupons []models.Coupon
	if err := q.Find(&coupons).Error; err != nil {
		return nil, storagef("failed to list coupons: %v", err)
	}
	return coupons, nil
}

// Deactivate flips a coupon inactive. Only the issuer or an admin may do it.
func (s *DiscountService) Deactivate(actorID uuid.UUID, actorRole string, couponID uuid.UUID) error {
	var coupon models.Coupon
	if err := s.db.First(&coupon, "id = ?", couponID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("coupon not found")
		}
		return storagef("failed to load coupon: %v", err)
	}
	if actorRole != models.RoleAdmin && coupon.IssuerID != actorID {
		return authzf("only the issuer may deactivate this coupon")
	}
	if err := s.db.Model(&coupon).UpdateColumn("is_active", false).Error; err != nil {
		return storagef("failed to deactivate coupon: %v", err)
	}
	return nil
}
