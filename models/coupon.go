package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coupon struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"uniqueIndex;not null"` // stored upper-cased

	// Owner coupons are scoped to a spa; admin coupons are global.
	SpaID      *uuid.UUID `gorm:"type:uuid;index"`
	IssuerID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	IssuerRole string     `gorm:"type:varchar(20);not null"`

	DiscountPercent float64    `gorm:"type:decimal(5,2);not null"`
	ExpiresAt       *time.Time `gorm:"index"`

	MaxRedemptions     *int // null = unlimited
	CurrentRedemptions int  `gorm:"default:0"`

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Code = NormalizeCouponCode(c.Code)
	return
}

// NormalizeCouponCode upper-cases and trims a code so lookups are
// case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
