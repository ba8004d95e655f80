package repository

import (
	"context"
	"errors"

	"longa/internal/domain/entity"
	domainRepo "longa/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	return db.WithContext(ctx).Omit("Service", "Client", "Provider").Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.WithContext(ctx).Preload("Service").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).Preload("Service").
		Where("client_id = ?", clientID).
		Order("scheduled_date DESC, scheduled_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindForProvider returns the provider's own bookings plus every open
// (pending, unassigned) booking they could accept.
func (r *bookingRepository) FindForProvider(ctx context.Context, db *gorm.DB, providerID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).Preload("Service").
		Where("provider_id = ?", providerID).
		Or("status = ? AND provider_id IS NULL", entity.BookingStatusPending).
		Order("scheduled_date ASC, scheduled_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.WithContext(ctx).Model(&entity.Booking{})

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.ProviderID != nil {
			query = query.Where("provider_id = ?", *filter.ProviderID)
		}
		if filter.ClientID != nil {
			query = query.Where("client_id = ?", *filter.ClientID)
		}
		if filter.Location != "" {
			query = query.Where("location = ?", filter.Location)
		}
		if filter.From != nil {
			query = query.Where("scheduled_date >= ?", filter.From.Format("2006-01-02"))
		}
		if filter.To != nil {
			query = query.Where("scheduled_date <= ?", filter.To.Format("2006-01-02"))
		}
	}

	err := query.Preload("Service").
		Order("scheduled_date DESC, scheduled_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ApplyTransition updates status (and provider columns) only while the
// booking is still in one of the expected statuses, and still held by the
// expected provider when one is given, so two racing writers cannot both
// move it.
func (r *bookingRepository) ApplyTransition(ctx context.Context, db *gorm.DB, t *entity.BookingTransition) (int64, error) {
	updates := map[string]interface{}{
		"status":     t.To,
		"updated_at": t.UpdatedAt,
	}
	if t.ClearProvider {
		updates["provider_id"] = nil
		updates["assigned_at"] = nil
	} else if t.ProviderID != nil {
		updates["provider_id"] = *t.ProviderID
		updates["assigned_at"] = t.AssignedAt
	}

	cond := "id = ? AND status IN ?"
	args := []interface{}{t.BookingID, t.From}
	if t.RequireProviderID != nil {
		cond += " AND provider_id = ?"
		args = append(args, *t.RequireProviderID)
	}

	result := db.WithContext(ctx).Model(&entity.Booking{}).
		Where(cond, args...).
		Updates(updates)
	return result.RowsAffected, result.Error
}
