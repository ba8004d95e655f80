package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateManualPayoutRequest struct {
	ProviderID    string          `json:"provider_id" validate:"omitempty,uuid"`
	PayeeName     string          `json:"payee_name" validate:"required,notblank,max=255"`
	PayeeAccount  string          `json:"payee_account" validate:"omitempty,max=50"`
	Amount        decimal.Decimal `json:"amount"`
	ScheduledDate string          `json:"scheduled_date" validate:"omitempty,date"`
	Notes         string          `json:"notes" validate:"omitempty,max=2000"`
}

type ProcessPayoutRequest struct {
	ExternalReference string `json:"external_reference" validate:"omitempty,max=100"`
	Notes             string `json:"notes" validate:"omitempty,max=2000"`
}

type FailPayoutRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=1000"`
}

type ListPayoutsRequest struct {
	Status     string `validate:"payout_status"`
	PayoutType string `validate:"omitempty,oneof=job manual"`
	ProviderID string `validate:"omitempty,uuid"`
	From       string `validate:"date"`
	To         string `validate:"date"`
}

type ExportPayoutsRequest struct {
	From          string `validate:"required,date"`
	To            string `validate:"required,date"`
	Status        string `validate:"payout_status"`
	MarkProcessed bool
}

// Response DTOs

type PayoutResponse struct {
	ID                uuid.UUID        `json:"id"`
	ProviderID        *uuid.UUID       `json:"provider_id,omitempty"`
	PayeeName         string           `json:"payee_name"`
	PayeeAccount      string           `json:"payee_account,omitempty"`
	BookingID         *uuid.UUID       `json:"booking_id,omitempty"`
	Amount            decimal.Decimal  `json:"amount"`
	NetAmount         *decimal.Decimal `json:"net_amount,omitempty"`
	PayoutType        string           `json:"payout_type"`
	Status            string           `json:"status"`
	ScheduledDate     string           `json:"scheduled_date"`
	ProcessedAt       *time.Time       `json:"processed_at,omitempty"`
	ExternalReference *string          `json:"external_reference,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type PayoutListResponse struct {
	Payouts []PayoutResponse `json:"payouts"`
	Total   int              `json:"total"`
}

// PayoutExport is a rendered export file ready to download.
type PayoutExport struct {
	Filename string
	Content  []byte
	Rows     int
	Marked   int64
}
