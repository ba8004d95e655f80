package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBookingRequest struct {
	ServiceID           string `json:"service_id" validate:"required,uuid"`
	PackageItemID       string `json:"package_item_id" validate:"omitempty,uuid"`
	ScheduledDate       string `json:"scheduled_date" validate:"required,date"`
	ScheduledTime       string `json:"scheduled_time" validate:"required,clock"`
	Location            string `json:"location" validate:"required,notblank,max=100"`
	IsEmergency         bool   `json:"is_emergency"`
	SpecialInstructions string `json:"special_instructions" validate:"omitempty,max=2000"`
}

// BookingActionRequest carries the operator reason for admin status actions.
type BookingActionRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=1000"`
}

type ListBookingsRequest struct {
	Status     string `validate:"booking_status"`
	ProviderID string `validate:"omitempty,uuid"`
	ClientID   string `validate:"omitempty,uuid"`
	Location   string `validate:"omitempty,max=100"`
	From       string `validate:"date"`
	To         string `validate:"date"`
}

// Response DTOs

type BookingResponse struct {
	ID                  uuid.UUID        `json:"id"`
	ServiceID           uuid.UUID        `json:"service_id"`
	ServiceName         string           `json:"service_name,omitempty"`
	ClientID            uuid.UUID        `json:"client_id"`
	ProviderID          *uuid.UUID       `json:"provider_id,omitempty"`
	PackageItemID       *uuid.UUID       `json:"package_item_id,omitempty"`
	ScheduledDate       string           `json:"scheduled_date"`
	ScheduledTime       string           `json:"scheduled_time"`
	DurationMinutes     int              `json:"duration_minutes"`
	Location            string           `json:"location"`
	TotalAmount         decimal.Decimal  `json:"total_amount"`
	Status              string           `json:"status"`
	IsEmergency         bool             `json:"is_emergency"`
	SpecialInstructions *string          `json:"special_instructions,omitempty"`
	AssignedAt          *time.Time       `json:"assigned_at,omitempty"`
	Payout              *PayoutBreakdown `json:"payout,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// PayoutBreakdown is the derived split shown on booking detail.
type PayoutBreakdown struct {
	Model            string           `json:"model"`
	CommissionPct    *decimal.Decimal `json:"commission_percentage,omitempty"`
	Commission       decimal.Decimal  `json:"commission"`
	ProviderEarnings decimal.Decimal  `json:"provider_earnings"`
}
