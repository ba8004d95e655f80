package repository

import (
	"context"

	"longa/internal/domain/entity"
	domainRepo "longa/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingAssignmentRepository struct{}

func NewBookingAssignmentRepository() domainRepo.BookingAssignmentRepository {
	return &bookingAssignmentRepository{}
}

func (r *bookingAssignmentRepository) Create(ctx context.Context, db *gorm.DB, assignment *entity.BookingAssignment) error {
	return db.WithContext(ctx).Omit("Provider").Create(assignment).Error
}

func (r *bookingAssignmentRepository) FindByBookingID(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingAssignment, error) {
	var assignments []entity.BookingAssignment
	err := db.WithContext(ctx).Preload("Provider").
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
