package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Spa struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Description string
	Address     string
	Phone       string
	Latitude    *float64 `gorm:"type:decimal(9,6)"`
	Longitude   *float64 `gorm:"type:decimal(9,6)"`

	WorkingHours JSONB `gorm:"type:jsonb;default:'{}'"`

	// Unapproved spas are invisible to discovery and cannot take bookings.
	IsApproved bool `gorm:"default:false"`
	// When false, new bookings start PENDING and need an explicit accept.
	AutoConfirm bool `gorm:"default:true"`

	SMSNotifications      bool `gorm:"default:false"`
	WhatsAppNotifications bool `gorm:"default:false"`

	Services []Service `gorm:"foreignKey:SpaID"`
	Staff    []Staff   `gorm:"foreignKey:SpaID"`
	Bookings []Booking `gorm:"foreignKey:SpaID"`

	gorm.Model
}

func (s *Spa) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
