package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClientProfile represents client-specific profile data
type ClientProfile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DefaultLocation string    `gorm:"type:varchar(100)" json:"default_location,omitempty"`
	Address         string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bookings []Booking `gorm:"foreignKey:ClientID" json:"bookings,omitempty"`
}

func (ClientProfile) TableName() string {
	return "client_profiles"
}
