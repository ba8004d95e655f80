package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type ReassignRequest struct {
	ProviderID string `json:"provider_id"`
	Reason     string `json:"reason"`
}

type CandidateFilterRequest struct {
	Search       string `validate:"omitempty,max=100"`
	Location     string `validate:"omitempty,max=100"`
	Availability string `validate:"omitempty,oneof=available unavailable"`
}

// Response DTOs

type ProviderCandidateResponse struct {
	ID          uuid.UUID       `json:"id"`
	FullName    string          `json:"full_name"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	IsAvailable bool            `json:"is_available"`
	Rating      decimal.Decimal `json:"rating"`
}

type CandidateListResponse struct {
	BookingID  uuid.UUID                   `json:"booking_id"`
	Candidates []ProviderCandidateResponse `json:"candidates"`
	Total      int                         `json:"total"`
}

type BookingAssignmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	BookingID    uuid.UUID  `json:"booking_id"`
	ProviderID   uuid.UUID  `json:"provider_id"`
	ProviderName string     `json:"provider_name,omitempty"`
	AssignedBy   *uuid.UUID `json:"assigned_by,omitempty"`
	Reason       string     `json:"reason"`
	AutoAssigned bool       `json:"auto_assigned"`
	CreatedAt    time.Time  `json:"created_at"`
}

type AssignmentHistoryResponse struct {
	Assignments []BookingAssignmentResponse `json:"assignments"`
	Total       int                         `json:"total"`
}
