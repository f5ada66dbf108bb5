package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking lifecycle states. PENDING and CONFIRMED are live, the other two
// are terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
)

type Booking struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	SpaID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServiceID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	StaffID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`

	ScheduledAt time.Time `gorm:"index;not null"`
	EndsAt      time.Time `gorm:"index;not null"` // scheduled_at + service duration
	Duration    int       `gorm:"not null"`       // in minutes, copied from the service

	Status string `gorm:"type:varchar(20);index;not null;default:'PENDING'"`

	BasePrice       float64 `gorm:"type:decimal(10,2);not null"`
	CouponCode      string
	DiscountPercent float64 `gorm:"type:decimal(5,2);default:0.0"`
	FinalPrice      float64 `gorm:"type:decimal(10,2);not null"`

	// Captured when the booking completes; later rate changes never touch
	// historical rows.
	CommissionRate   float64 `gorm:"type:decimal(5,4);default:0.0"`
	CommissionAmount float64 `gorm:"type:decimal(10,2);default:0.0"`

	CancellationReason string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// Live reports whether the booking still occupies its slot.
func (b *Booking) Live() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
