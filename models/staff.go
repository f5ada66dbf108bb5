package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Staff struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key"`
	SpaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_spa_staff_phone,priority:1"`

	Name      string `gorm:"not null"`
	Phone     string `gorm:"not null;uniqueIndex:idx_spa_staff_phone,priority:2"`
	Specialty string
	IsActive  bool `gorm:"default:true"`

	Bookings []Booking `gorm:"foreignKey:StaffID"`

	gorm.Model
}

func (s *Staff) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
