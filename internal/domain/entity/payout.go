package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayoutType string

const (
	PayoutTypeJob    PayoutType = "job"
	PayoutTypeManual PayoutType = "manual"
)

// PayoutStatus values. Both processed and completed are valid on the wire;
// this service only ever writes processed.
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusProcessed PayoutStatus = "processed"
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

func ParsePayoutStatus(s string) (PayoutStatus, error) {
	switch PayoutStatus(s) {
	case PayoutStatusPending, PayoutStatusProcessed, PayoutStatusCompleted, PayoutStatusFailed:
		return PayoutStatus(s), nil
	default:
		return "", fmt.Errorf("unknown payout status: %q", s)
	}
}

// IsSettled reports whether money has left the platform for this status.
func (s PayoutStatus) IsSettled() bool {
	return s == PayoutStatusProcessed || s == PayoutStatusCompleted
}

// Payout is one monetary disbursement obligation
type Payout struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID        *uuid.UUID          `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	PayeeName         string              `gorm:"type:varchar(255);not null" json:"payee_name"`
	PayeeAccount      string              `gorm:"type:varchar(50)" json:"payee_account,omitempty"`
	BookingID         *uuid.UUID          `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	Amount            decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	NetAmount         decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"net_amount"`
	PayoutType        PayoutType          `gorm:"type:varchar(20);not null;index" json:"payout_type"`
	Status            PayoutStatus        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ScheduledDate     time.Time           `gorm:"type:date;not null;index" json:"scheduled_date"`
	ProcessedAt       *time.Time          `json:"processed_at,omitempty"`
	ExternalReference *string             `gorm:"type:varchar(100)" json:"external_reference,omitempty"`
	Notes             string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payout) TableName() string {
	return "payouts"
}

// PayoutFilter narrows payout listings and exports.
type PayoutFilter struct {
	Status     PayoutStatus
	PayoutType PayoutType
	ProviderID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// PayoutExportRow is one flattened payout with the columns the finance
// export needs. Job columns are empty for manual payouts.
type PayoutExportRow struct {
	PayoutID      uuid.UUID
	PayeeName     string
	PayeeAccount  string
	ServiceType   string
	BookingID     *uuid.UUID
	ServiceName   string
	JobDate       *time.Time
	ScheduledDate time.Time
	Amount        decimal.Decimal
	PayoutType    PayoutType
	Notes         string
}
