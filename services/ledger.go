package services

import (
	"errors"
	"time"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService derives an owner's withdrawable balance from completed
// bookings and governs payout requests against it. A REQUESTED payout
// already reserves its amount; REJECTED releases it, COMPLETED deducts it
// permanently.
type LedgerService struct {
	db  *gorm.DB
	cfg config.Platform
}

func NewLedgerService(db *gorm.DB, cfg config.Platform) *LedgerService {
	return &LedgerService{db: db, cfg: cfg}
}

const availableProfitQuery = `
SELECT COALESCE((
    SELECT SUM(b.final_price - b.commission_amount)
    FROM bookings b
    JOIN spas s ON s.id = b.spa_id
    WHERE s.owner_id = ? AND b.status = 'COMPLETED' AND b.deleted_at IS NULL
), 0) - COALESCE((
    SELECT SUM(p.amount)
    FROM payouts p
    WHERE p.owner_id = ? AND p.status <> 'REJECTED' AND p.deleted_at IS NULL
), 0)`

// AvailableProfit is a display read; the payout request path re-derives the
// balance inside its own transaction instead of trusting this value.
func (s *LedgerService) AvailableProfit(ownerID uuid.UUID) (float64, error) {
	return availableProfit(s.db, ownerID)
}

func availableProfit(tx *gorm.DB, ownerID uuid.UUID) (float64, error) {
	var balance float64
	if err := tx.Raw(availableProfitQuery, ownerID, ownerID).Scan(&balance).Error; err != nil {
		return 0, storagef("failed to derive available profit: %v", err)
	}
	return round2(balance), nil
}

// RequestPayout inserts a REQUESTED payout after re-checking the balance in
// the same serializable transaction, so two simultaneous requests cannot
// both pass the check against the same funds.
func (s *LedgerService) RequestPayout(ownerID uuid.UUID, amount float64, notes string) (*models.Payout, error) {
	if amount <= 0 {
		return nil, validationf("payout amount must be positive")
	}

	var payout models.Payout
	err := runSerializable(s.db, func(tx *gorm.DB) error {
		balance, err := availableProfit(tx, ownerID)
		if err != nil {
			return err
		}
		if amount > balance {
			return conflictf("insufficient balance: requested %.2f, available %.2f", amount, balance)
		}
		payout = models.Payout{
			OwnerID:     ownerID,
			Amount:      amount,
			Status:      models.PayoutRequested,
			Notes:       notes,
			RequestedAt: time.Now(),
		}
		return tx.Create(&payout).Error
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// Review moves a REQUESTED payout to APPROVED or REJECTED. Admin only
// (enforced at the route). Rejection releases the reserved funds simply by
// leaving the REJECTED row out of the balance derivation.
func (s *LedgerService) Review(payoutID uuid.UUID, approved bool, notes string) (*models.Payout, error) {
	var payout models.Payout
	err := runSerializable(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&payout, "id = ?", payoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("payout not found")
			}
			return storagef("failed to load payout: %v", err)
		}
		if payout.Status != models.PayoutRequested {
			return statef("cannot review a %s payout", payout.Status)
		}
		now := time.Now()
		payout.Status = models.PayoutRejected
		if approved {
			payout.Status = models.PayoutApproved
		}
		payout.ReviewedAt = &now
		if notes != "" {
			payout.Notes = notes
		}
		return tx.Model(&payout).Updates(map[string]interface{}{
			"status":      payout.Status,
			"reviewed_at": now,
			"notes":       payout.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// CompletePayout marks an APPROVED payout paid out, deducting it for good.
func (s *LedgerService) CompletePayout(payoutID uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	err := runSerializable(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&payout, "id = ?", payoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("payout not found")
			}
			return storagef("failed to load payout: %v", err)
		}
		if payout.Status != models.PayoutApproved {
			return statef("cannot complete a %s payout", payout.Status)
		}
		now := time.Now()
		payout.Status = models.PayoutCompleted
		payout.CompletedAt = &now
		return tx.Model(&payout).Updates(map[string]interface{}{
			"status":       models.PayoutCompleted,
			"completed_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// ForOwner lists an owner's payouts, newest first.
func (s *LedgerService) ForOwner(ownerID uuid.UUID) ([]models.Payout, error) {
	var payouts []models.Payout
	if err := s.db.Where("owner_id = ?", ownerID).Order("requested_at DESC").Find(&payouts).Error; err != nil {
		return nil, storagef("failed to list payouts: %v", err)
	}
	return payouts, nil
}

// All lists every payout, optionally filtered by status. Admin view.
func (s *LedgerService) All(status string) ([]models.Payout, error) {
	q := s.db.Order("requested_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var payouts []models.Payout
	if err := q.Find(&payouts).Error; err != nil {
		return nil, storagef("failed to list payouts: %v", err)
	}
	return payouts, nil
}
