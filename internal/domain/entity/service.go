package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType selects how a provider is paid for a job of this service.
type ServiceType string

const (
	ServiceTypeOneOff       ServiceType = "one_off"
	ServiceTypeSubscription ServiceType = "subscription"
)

func ParseServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceTypeOneOff, ServiceTypeSubscription:
		return ServiceType(s), nil
	default:
		return "", fmt.Errorf("unknown service type: %q", s)
	}
}

type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
)

// Service is a catalog entry clients can book.
type Service struct {
	ID                   uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                 string               `gorm:"type:varchar(255);not null" json:"name"`
	Type                 ServiceType          `gorm:"type:varchar(20);not null;index" json:"type"`
	ClientPrice          decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"client_price"`
	CommissionPercentage *decimal.Decimal     `gorm:"type:decimal(5,2)" json:"commission_percentage,omitempty"`
	ProviderFee          *decimal.Decimal     `gorm:"type:decimal(12,2)" json:"provider_fee,omitempty"`
	DurationMinutes      int                  `gorm:"not null" json:"duration_minutes"`
	Status               ServiceStatus        `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Tags                 string               `gorm:"type:text" json:"-"`
	Description          string               `gorm:"type:text" json:"description,omitempty"`
	CreatedAt            time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	PackageItems         []ServicePackageItem `gorm:"foreignKey:PackageServiceID" json:"package_items,omitempty"`
}

func (Service) TableName() string {
	return "services"
}

// IsActive checks whether the service can be booked
func (s *Service) IsActive() bool {
	return s.Status == ServiceStatusActive
}

// TagList splits the stored comma list.
func (s *Service) TagList() []string {
	var tags []string
	for _, t := range strings.Split(s.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTags normalizes and stores tags as a comma list.
func (s *Service) SetTags(tags []string) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	s.Tags = strings.Join(clean, ",")
}

// ServicePackageItem is one inclusion line of a subscription package.
// Jobs booked against the line pay the provider a fixed fee.
type ServicePackageItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PackageServiceID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"package_service_id"`
	IncludedServiceID uuid.UUID       `gorm:"type:uuid;not null" json:"included_service_id"`
	Quantity          int             `gorm:"not null;default:1" json:"quantity"`
	ProviderFeePerJob decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"provider_fee_per_job"`

	IncludedService *Service `gorm:"foreignKey:IncludedServiceID" json:"included_service,omitempty"`
}

func (ServicePackageItem) TableName() string {
	return "service_package_items"
}
