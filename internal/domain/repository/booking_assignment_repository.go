package repository

import (
	"context"

	"longa/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingAssignmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, assignment *entity.BookingAssignment) error
	FindByBookingID(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingAssignment, error)
}
