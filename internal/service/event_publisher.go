package service

import (
	"context"

	"longa/internal/domain/entity"
)

// EventPublisher delivers booking notifications to downstream senders.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event *entity.BookingEvent) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher is used when no broker is configured.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishBookingEvent(context.Context, *entity.BookingEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
