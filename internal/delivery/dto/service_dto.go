package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateServiceRequest struct {
	Name                 string           `json:"name" validate:"required,notblank,max=255"`
	Type                 string           `json:"type" validate:"required,service_type"`
	ClientPrice          decimal.Decimal  `json:"client_price"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
	ProviderFee          *decimal.Decimal `json:"provider_fee"`
	DurationMinutes      int              `json:"duration_minutes" validate:"required,min=15,max=1440"`
	Tags                 []string         `json:"tags" validate:"omitempty,dive,max=50"`
	Description          string           `json:"description" validate:"omitempty"`
}

type UpdateServiceRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,notblank,max=255"`
	ClientPrice          *decimal.Decimal `json:"client_price"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
	ProviderFee          *decimal.Decimal `json:"provider_fee"`
	DurationMinutes      *int             `json:"duration_minutes" validate:"omitempty,min=15,max=1440"`
	Status               *string          `json:"status" validate:"omitempty,oneof=active inactive"`
	Tags                 []string         `json:"tags" validate:"omitempty,dive,max=50"`
	Description          *string          `json:"description"`
}

type AddPackageItemRequest struct {
	IncludedServiceID string          `json:"included_service_id" validate:"required,uuid"`
	Quantity          int             `json:"quantity" validate:"required,min=1"`
	ProviderFeePerJob decimal.Decimal `json:"provider_fee_per_job"`
}

// Response DTOs

type ServiceResponse struct {
	ID                   uuid.UUID             `json:"id"`
	Name                 string                `json:"name"`
	Type                 string                `json:"type"`
	ClientPrice          decimal.Decimal       `json:"client_price"`
	CommissionPercentage *decimal.Decimal      `json:"commission_percentage,omitempty"`
	ProviderFee          *decimal.Decimal      `json:"provider_fee,omitempty"`
	DurationMinutes      int                   `json:"duration_minutes"`
	Status               string                `json:"status"`
	Tags                 []string              `json:"tags"`
	Description          string                `json:"description,omitempty"`
	PackageItems         []PackageItemResponse `json:"package_items,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

type PackageItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	IncludedServiceID   uuid.UUID       `json:"included_service_id"`
	IncludedServiceName string          `json:"included_service_name,omitempty"`
	Quantity            int             `json:"quantity"`
	ProviderFeePerJob   decimal.Decimal `json:"provider_fee_per_job"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}
