package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payout states. A REQUESTED payout already reserves its amount against the
// owner's available profit; REJECTED releases it, COMPLETED deducts it for
// good.
const (
	PayoutRequested = "REQUESTED"
	PayoutApproved  = "APPROVED"
	PayoutCompleted = "COMPLETED"
	PayoutRejected  = "REJECTED"
)

type Payout struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount float64 `gorm:"type:decimal(10,2);not null"`
	Status string  `gorm:"type:varchar(20);index;not null;default:'REQUESTED'"`
	Notes  string

	RequestedAt time.Time `gorm:"not null"`
	ReviewedAt  *time.Time
	CompletedAt *time.Time

	gorm.Model
}

func (p *Payout) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
