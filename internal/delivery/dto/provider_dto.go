package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type UpdateProviderProfileRequest struct {
	Location     *string          `json:"location" validate:"omitempty,notblank,max=100"`
	IsAvailable  *bool            `json:"is_available"`
	Rating       *decimal.Decimal `json:"rating"`
	PayoutMethod *string          `json:"payout_method" validate:"omitempty,oneof=bank mobile_money"`
	PayoutNumber *string          `json:"payout_number" validate:"omitempty,max=50"`
	Biography    *string          `json:"biography"`
	IsActive     *bool            `json:"is_active"`
}

// UpdateAvailabilityRequest is what a provider may change about themselves.
type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// Response DTOs

type ProviderProfileResponse struct {
	UserID       uuid.UUID       `json:"user_id"`
	FullName     string          `json:"full_name,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	IsActive     bool            `json:"is_active"`
	Location     string          `json:"location"`
	IsAvailable  bool            `json:"is_available"`
	Rating       decimal.Decimal `json:"rating"`
	PayoutMethod string          `json:"payout_method"`
	PayoutNumber string          `json:"payout_number,omitempty"`
	Biography    string          `json:"biography,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ProviderListResponse struct {
	Providers []ProviderProfileResponse `json:"providers"`
	Total     int                       `json:"total"`
}

type ClientProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	DefaultLocation string    `json:"default_location,omitempty"`
	Address         string    `json:"address,omitempty"`
}
