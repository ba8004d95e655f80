package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderProfile holds the service-provider side of a user account:
// where they work, whether they take jobs right now, and where payouts go.
type ProviderProfile struct {
	UserID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Location     string          `gorm:"type:varchar(100);not null;index" json:"location"`
	IsAvailable  bool            `gorm:"not null;default:true;index" json:"is_available"`
	Rating       decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	PayoutMethod string          `gorm:"type:varchar(20);not null;default:'bank'" json:"payout_method"`
	PayoutNumber string          `gorm:"type:varchar(50)" json:"payout_number,omitempty"`
	Biography    string          `gorm:"type:text" json:"biography,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}

// Payout methods
const (
	PayoutMethodBank        = "bank"
	PayoutMethodMobileMoney = "mobile_money"
)

// ProviderCandidate is the flattened view of an active provider used when
// picking someone for a booking.
type ProviderCandidate struct {
	ID          uuid.UUID       `json:"id"`
	FullName    string          `json:"full_name"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	IsAvailable bool            `json:"is_available"`
	Rating      decimal.Decimal `json:"rating"`
}
