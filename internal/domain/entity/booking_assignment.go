package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingAssignment is one row of the append-only assignment history of a booking.
type BookingAssignment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"booking_id"`
	ProviderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"provider_id"`
	AssignedBy   *uuid.UUID `gorm:"type:uuid" json:"assigned_by,omitempty"`
	Reason       string     `gorm:"type:text;not null" json:"reason"`
	AutoAssigned bool       `gorm:"not null;default:false" json:"auto_assigned"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Provider User `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (BookingAssignment) TableName() string {
	return "booking_assignments"
}
