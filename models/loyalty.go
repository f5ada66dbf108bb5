package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loyalty ranks, derived from points and never stored.
const (
	RankBronze   = "BRONZE"
	RankSilver   = "SILVER"
	RankGold     = "GOLD"
	RankPlatinum = "PLATINUM"
)

// Loyalty holds a customer's accumulated points. The rank is always
// recomputed from points, so the row carries no rank column.
type Loyalty struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Points int       `gorm:"not null;default:0"`

	gorm.Model
}

func (l *Loyalty) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
