package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID              uuid.UUID                `json:"id"`
	Email           string                   `json:"email"`
	FullName        string                   `json:"full_name"`
	Phone           string                   `json:"phone,omitempty"`
	Role            string                   `json:"role"`
	IsActive        bool                     `json:"is_active"`
	ProviderProfile *ProviderProfileResponse `json:"provider_profile,omitempty"`
	ClientProfile   *ClientProfileResponse   `json:"client_profile,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// Role-specific Registration Request DTOs

type RegisterClientRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	FullName        string `json:"full_name" validate:"required,notblank,min=2"`
	Phone           string `json:"phone" validate:"required,min=9,max=20"`
	DefaultLocation string `json:"default_location" validate:"omitempty,max=100"`
	Address         string `json:"address" validate:"omitempty"`
}

type RegisterProviderRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required,notblank,min=2"`
	Phone        string `json:"phone" validate:"required,min=9,max=20"`
	Location     string `json:"location" validate:"required,notblank,max=100"`
	PayoutMethod string `json:"payout_method" validate:"omitempty,oneof=bank mobile_money"`
	PayoutNumber string `json:"payout_number" validate:"omitempty,max=50"`
	Biography    string `json:"biography" validate:"omitempty"`
}
