package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus validates a wire value.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// completed -> in_progress is an administrative rollback only; the usecase
// layer decides who may request it.
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:    {BookingStatusAccepted: true, BookingStatusCancelled: true},
	BookingStatusAccepted:   {BookingStatusInProgress: true, BookingStatusCancelled: true},
	BookingStatusInProgress: {BookingStatusCompleted: true, BookingStatusCancelled: true},
	BookingStatusCompleted:  {BookingStatusInProgress: true},
	BookingStatusCancelled:  {},
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
func CanTransition(from, to BookingStatus) bool {
	return bookingTransitions[from][to]
}

// HoldsProvider reports whether a booking in this status may carry a provider.
func (s BookingStatus) HoldsProvider() bool {
	return s == BookingStatusAccepted || s == BookingStatusInProgress || s == BookingStatusCompleted
}

// IsTerminal reports whether no further forward transition exists.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking represents one scheduled service engagement between a client and a provider
type Booking struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ServiceID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id"`
	ClientID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	ProviderID          *uuid.UUID      `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	PackageItemID       *uuid.UUID      `gorm:"type:uuid" json:"package_item_id,omitempty"`
	ScheduledDate       time.Time       `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime       string          `gorm:"type:time;not null" json:"scheduled_time"`
	DurationMinutes     int             `gorm:"not null" json:"duration_minutes"`
	Location            string          `gorm:"type:varchar(100);not null;index" json:"location"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status              BookingStatus   `gorm:"type:booking_status;not null;default:'pending';index" json:"status"`
	IsEmergency         bool            `gorm:"not null;default:false" json:"is_emergency"`
	SpecialInstructions *string         `gorm:"type:text" json:"special_instructions,omitempty"`
	AssignedAt          *time.Time      `json:"assigned_at,omitempty"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Service  Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Client   User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Provider *User   `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// IsAssignedTo checks whether the given provider currently holds the booking
func (b *Booking) IsAssignedTo(providerID uuid.UUID) bool {
	return b.ProviderID != nil && *b.ProviderID == providerID
}

// BookingFilter is a domain-level filter for admin booking listings.
type BookingFilter struct {
	Status     BookingStatus
	ProviderID *uuid.UUID
	ClientID   *uuid.UUID
	Location   string
	From       *time.Time
	To         *time.Time
}

// BookingTransition describes one conditional status update. The update is
// applied only while the booking is still in one of From.
type BookingTransition struct {
	BookingID     uuid.UUID
	From          []BookingStatus
	To            BookingStatus
	ProviderID    *uuid.UUID
	AssignedAt    *time.Time
	ClearProvider bool
	UpdatedAt     time.Time

	// RequireProviderID, when set, only matches a row still assigned to
	// that provider.
	RequireProviderID *uuid.UUID
}
