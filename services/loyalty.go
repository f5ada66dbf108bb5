package services

import (
	"errors"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rank thresholds in points. Points only increase, so crossing a threshold
// is a one-way promotion.
const (
	silverThreshold   = 100
	goldThreshold     = 200
	platinumThreshold = 300
)

type LoyaltyService struct {
	db  *gorm.DB
	cfg config.Platform
}

func NewLoyaltyService(db *gorm.DB, cfg config.Platform) *LoyaltyService {
	return &LoyaltyService{db: db, cfg: cfg}
}

// Rank derives the tier from a points total. It is never stored.
func Rank(points int) string {
	switch {
	case points >= platinumThreshold:
		return models.RankPlatinum
	case points >= goldThreshold:
		return models.RankGold
	case points >= silverThreshold:
		return models.RankSilver
	default:
		return models.RankBronze
	}
}

// Get returns a customer's points and derived rank. Customers registered
// before the loyalty table existed read as zero points.
func (s *LoyaltyService) Get(userID uuid.UUID) (*models.Loyalty, string, error) {
	var loyalty models.Loyalty
	if err := s.db.Where("user_id = ?", userID).First(&loyalty).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			loyalty = models.Loyalty{UserID: userID}
			return &loyalty, Rank(0), nil
		}
		return nil, "", storagef("failed to load loyalty record: %v", err)
	}
	return &loyalty, Rank(loyalty.Points), nil
}

// award increments a customer's points inside the caller's transaction.
// Called only from the booking completion path.
func (s *LoyaltyService) award(tx *gorm.DB, customerID uuid.UUID, points int) error {
	if points <= 0 {
		return nil
	}
	res := tx.Model(&models.Loyalty{}).
		Where("user_id = ?", customerID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return storagef("failed to award loyalty points: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		loyalty := models.Loyalty{UserID: customerID, Points: points}
		if err := tx.Create(&loyalty).Error; err != nil {
			return storagef("failed to create loyalty record: %v", err)
		}
	}
	return nil
}
