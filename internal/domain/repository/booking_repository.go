package repository

import (
	"context"

	"longa/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Booking, error)
	FindForProvider(ctx context.Context, db *gorm.DB, providerID uuid.UUID) ([]entity.Booking, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter) ([]entity.Booking, error)
	// ApplyTransition performs a conditional status update and returns the
	// number of affected rows (0 = booking no longer in an expected status).
	ApplyTransition(ctx context.Context, db *gorm.DB, transition *entity.BookingTransition) (int64, error)
}
