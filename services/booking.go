package services

import (
	"errors"
	"time"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingService owns the reservation lifecycle:
//
//	PENDING   -> CONFIRMED, CANCELLED
//	CONFIRMED -> COMPLETED, CANCELLED
//
// COMPLETED and CANCELLED are terminal. Every mutating operation runs as a
// single serializable transaction so slot conflicts and money invariants
// are arbitrated by the database alone.
type BookingService struct {
	db        *gorm.DB
	cfg       config.Platform
	discounts *DiscountService
	loyalty   *LoyaltyService
}

func NewBookingService(db *gorm.DB, cfg config.Platform, discounts *DiscountService, loyalty *LoyaltyService) *BookingService {
	return &BookingService{db: db, cfg: cfg, discounts: discounts, loyalty: loyalty}
}

type CreateBookingInput struct {
	SpaID       uuid.UUID
	ServiceID   uuid.UUID
	StaffID     *uuid.UUID
	ScheduledAt time.Time
	CouponCode  string
}

// Create validates the spa, service and slot, prices the booking through
// the discount engine, and persists it CONFIRMED, or PENDING when the spa
// requires manual acceptance. The conflict check and the insert share one
// transaction, so two concurrent requests for the same slot cannot both
// succeed.
func (s *BookingService) Create(customerID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	if in.ScheduledAt.IsZero() {
		return nil, validationf("scheduled time is required")
	}
	if in.ScheduledAt.Before(time.Now()) {
		return nil, validationf("scheduled time must be in the future")
	}

	var booking models.Booking
	err := runSerializable(s.db, func(tx *gorm.DB) error {
		var spa models.Spa
		if err := tx.First(&spa, "id = ?", in.SpaID).Error; err != nil {
			return wrapLookupErr(err, "spa")
		}
		if !spa.IsApproved {
			return validationf("spa is not approved for bookings")
		}

		var service models.Service
		if err := tx.First(&service, "id = ? AND spa_id = ? AND is_active = true", in.ServiceID, in.SpaID).Error; err != nil {
			return wrapLookupErr(err, "service")
		}
		if service.Duration <= 0 {
			return validationf("service has no duration configured")
		}

		if in.StaffID != nil {
			var staff models.Staff
			if err := tx.First(&staff, "id = ? AND spa_id = ? AND is_active = true", *in.StaffID, in.SpaID).Error; err != nil {
				return wrapLookupErr(err, "staff member")
			}
		}

		endsAt := in.ScheduledAt.Add(time.Duration(service.Duration) * time.Minute)
		if err := ensureSlotFree(tx, in.SpaID, in.StaffID, uuid.Nil, in.ScheduledAt, endsAt); err != nil {
			return err
		}

		finalPrice := service.Price
		var discountPercent float64
		var couponCode string
		if in.CouponCode != "" {
			coupon, priced, err := s.discounts.apply(tx, in.CouponCode, in.SpaID, service.Price)
			if err != nil {
				return err
			}
			discountPercent = coupon.DiscountPercent
			couponCode = coupon.Code
			finalPrice = priced
		}

		status := models.BookingConfirmed
		if !spa.AutoConfirm {
			status = models.BookingPending
		}

		booking = models.Booking{
			SpaID:           in.SpaID,
			ServiceID:       service.ID,
			StaffID:         in.StaffID,
			CustomerID:      customerID,
			ScheduledAt:     in.ScheduledAt,
			EndsAt:          endsAt,
			Duration:        service.Duration,
			Status:          status,
			BasePrice:       service.Price,
			CouponCode:      couponCode,
			DiscountPercent: discountPercent,
			FinalPrice:      finalPrice,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return storagef("failed to create booking: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Accept moves a PENDING booking to CONFIRMED. Spa owner only.
func (s *BookingService) Accept(actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(actorID, actorRole, bookingID, func(tx *gorm.DB, b *models.Booking, spa *models.Spa) error {
		if err := requireOperator(actorID, actorRole, spa); err != nil {
			return err
		}
		if b.Status != models.BookingPending {
			return statef("cannot accept a %s booking", b.Status)
		}
		b.Status = models.BookingConfirmed
		return tx.Model(b).UpdateColumn("status", models.BookingConfirmed).Error
	})
}

// Reject cancels a PENDING booking. Spa owner only.
func (s *BookingService) Reject(actorID uuid.UUID, actorRole string, bookingID uuid.UUID, reason string) (*models.Booking, error) {
	return s.transition(actorID, actorRole, bookingID, func(tx *gorm.DB, b *models.Booking, spa *models.Spa) error {
		if err := requireOperator(actorID, actorRole, spa); err != nil {
			return err
		}
		if b.Status != models.BookingPending {
			return statef("cannot reject a %s booking", b.Status)
		}
		return cancelRow(tx, b, reason)
	})
}

// Complete finishes a CONFIRMED booking once its start time has passed
// (immediately, when the platform allows manual completion). The status
// change, the commission capture and the loyalty award commit or roll back
// together.
func (s *BookingService) Complete(actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(actorID, actorRole, bookingID, func(tx *gorm.DB, b *models.Booking, spa *models.Spa) error {
		if err := requireOperator(actorID, actorRole, spa); err != nil {
			return err
		}
		if b.Status != models.BookingConfirmed {
			return statef("cannot complete a %s booking", b.Status)
		}
		now := time.Now()
		if !s.cfg.AllowManualCompletion && b.ScheduledAt.After(now) {
			return statef("cannot complete a booking before its scheduled start")
		}

		// Snapshot the commission rate into the row; later rate changes
		// must not alter historical amounts.
		rate := s.cfg.CommissionRate
		b.Status = models.BookingCompleted
		b.CompletedAt = &now
		b.CommissionRate = rate
		b.CommissionAmount = CommissionAmount(b.FinalPrice, rate)

		if err := tx.Model(b).Updates(map[string]interface{}{
			"status":            models.BookingCompleted,
			"completed_at":      now,
			"commission_rate":   rate,
			"commission_amount": b.CommissionAmount,
		}).Error; err != nil {
			return storagef("failed to complete booking: %v", err)
		}
		return s.loyalty.award(tx, b.CustomerID, s.cfg.LoyaltyPointsPerVisit)
	})
}

// Reschedule moves a live booking to a new start time after re-running the
// conflict check, excluding the booking's own slot.
func (s *BookingService) Reschedule(actorID uuid.UUID, actorRole string, bookingID uuid.UUID, newScheduledAt time.Time) (*models.Booking, error) {
	if newScheduledAt.IsZero() {
		return nil, validationf("scheduled time is required")
	}
	if newScheduledAt.Before(time.Now()) {
		return nil, validationf("scheduled time must be in the future")
	}
	return s.transition(actorID, actorRole, bookingID, func(tx *gorm.DB, b *models.Booking, spa *models.Spa) error {
		if err := requireParticipant(actorID, actorRole, b, spa); err != nil {
			return err
		}
		if !b.Live() {
			return statef("cannot reschedule a %s booking", b.Status)
		}
		endsAt := newScheduledAt.Add(time.Duration(b.Duration) * time.Minute)
		if err := ensureSlotFree(tx, b.SpaID, b.StaffID, b.ID, newScheduledAt, endsAt); err != nil {
			return err
		}
		b.ScheduledAt = newScheduledAt
		b.EndsAt = endsAt
		return tx.Model(b).Updates(map[string]interface{}{
			"scheduled_at": newScheduledAt,
			"ends_at":      endsAt,
		}).Error
	})
}

// Cancel terminates a live booking. Customer or spa owner. Commission
// already accrued on COMPLETED bookings is never reversed; only live
// bookings can be cancelled in the first place.
func (s *BookingService) Cancel(actorID uuid.UUID, actorRole string, bookingID uuid.UUID, reason string) (*models.Booking, error) {
	return s.transition(actorID, actorRole, bookingID, func(tx *gorm.DB, b *models.Booking, spa *models.Spa) error {
		if err := requireParticipant(actorID, actorRole, b, spa); err != nil {
			return err
		}
		if !b.Live() {
			return statef("cannot cancel a %s booking", b.Status)
		}
		return cancelRow(tx, b, reason)
	})
}

// Get loads a booking visible to the actor.
func (s *BookingService) Get(actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, wrapLookupErr(err, "booking")
	}
	var spa models.Spa
	if err := s.db.First(&spa, "id = ?", booking.SpaID).Error; err != nil {
		return nil, wrapLookupErr(err, "spa")
	}
	if err := requireParticipant(actorID, actorRole, &booking, &spa); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ForCustomer lists a customer's bookings, optionally filtered by status.
func (s *BookingService) ForCustomer(customerID uuid.UUID, status string) ([]models.Booking, error) {
	q := s.db.Where("customer_id = ?", customerID).Order("scheduled_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, storagef("failed to list bookings: %v", err)
	}
	return bookings, nil
}

// ForSpa lists a spa's bookings, optionally filtered by status.
func (s *BookingService) ForSpa(spaID uuid.UUID, status string) ([]models.Booking, error) {
	q := s.db.Where("spa_id = ?", spaID).Order("scheduled_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, storagef("failed to list bookings: %v", err)
	}
	return bookings, nil
}

// transition loads the booking and its spa inside one serializable
// transaction and applies fn to them.
func (s *BookingService) transition(actorID uuid.UUID, actorRole string, bookingID uuid.UUID, fn func(tx *gorm.DB, b *models.Booking, spa *models.Spa) error) (*models.Booking, error) {
	var booking models.Booking
	err := runSerializable(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return wrapLookupErr(err, "booking")
		}
		var spa models.Spa
		if err := tx.First(&spa, "id = ?", booking.SpaID).Error; err != nil {
			return wrapLookupErr(err, "spa")
		}
		return fn(tx, &booking, &spa)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ensureSlotFree rejects when [start, end) overlaps a non-cancelled booking
// contending for the same capacity. A request pinned to a staff member
// contends with that staff member's bookings and with staff-less ones; a
// staff-less request occupies spa-wide capacity and contends with every
// booking at the spa. Bookings pinned to distinct staff never contend.
// excludeID skips the booking's own slot on reschedule.
func ensureSlotFree(tx *gorm.DB, spaID uuid.UUID, staffID *uuid.UUID, excludeID uuid.UUID, start, end time.Time) error {
	q := tx.Model(&models.Booking{}).
		Where("spa_id = ?", spaID).
		Where("status <> ?", models.BookingCancelled).
		Where("scheduled_at < ? AND ends_at > ?", end, start)
	if staffID != nil {
		q = q.Where("staff_id = ? OR staff_id IS NULL", *staffID)
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return storagef("failed to check slot availability: %v", err)
	}
	if count > 0 {
		return conflictf("requested slot overlaps an existing booking")
	}
	return nil
}

func cancelRow(tx *gorm.DB, b *models.Booking, reason string) error {
	now := time.Now()
	b.Status = models.BookingCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	return tx.Model(b).Updates(map[string]interface{}{
		"status":              models.BookingCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        now,
	}).Error
}

// requireOperator allows the spa's owner and admins.
func requireOperator(actorID uuid.UUID, actorRole string, spa *models.Spa) error {
	if actorRole == models.RoleAdmin || spa.OwnerID == actorID {
		return nil
	}
	return authzf("only the spa operator may perform this action")
}

// requireParticipant allows the booking's customer, the spa's owner and
// admins.
func requireParticipant(actorID uuid.UUID, actorRole string, b *models.Booking, spa *models.Spa) error {
	if actorRole == models.RoleAdmin || b.CustomerID == actorID || spa.OwnerID == actorID {
		return nil
	}
	return authzf("not a participant of this booking")
}

func wrapLookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundf("%s not found", what)
	}
	return storagef("failed to load %s: %v", what, err)
}
