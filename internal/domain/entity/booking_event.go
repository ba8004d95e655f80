package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event types published to the notification topic
const (
	EventTypeBookingCreated       = "booking.created"
	EventTypeBookingStatusChanged = "booking.status_changed"
	EventTypeBookingReassigned    = "booking.reassigned"
)

// BookingEvent is the notification payload downstream senders (email, SMS,
// push) consume.
type BookingEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	EventType  string        `json:"event_type"`
	BookingID  uuid.UUID     `json:"booking_id"`
	ClientID   uuid.UUID     `json:"client_id"`
	ProviderID *uuid.UUID    `json:"provider_id,omitempty"`
	FromStatus BookingStatus `json:"from_status,omitempty"`
	ToStatus   BookingStatus `json:"to_status"`
	Action     string        `json:"action"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
