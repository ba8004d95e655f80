package repository

import (
	"context"
	"errors"
	"time"

	"longa/internal/domain/entity"
	domainRepo "longa/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type payoutRepository struct{}

func NewPayoutRepository() domainRepo.PayoutRepository {
	return &payoutRepository{}
}

func (r *payoutRepository) Create(ctx context.Context, db *gorm.DB, payout *entity.Payout) error {
	return db.WithContext(ctx).Create(payout).Error
}

func (r *payoutRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Payout, error) {
	var payout entity.Payout
	err := db.WithContext(ctx).Where("id = ?", id).First(&payout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.PayoutFilter) ([]entity.Payout, error) {
	var payouts []entity.Payout
	err := applyPayoutFilter(db.WithContext(ctx).Model(&entity.Payout{}), filter).
		Order("payouts.scheduled_date DESC, payouts.created_at DESC").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

func (r *payoutRepository) FindByBookingID(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.Payout, error) {
	var payouts []entity.Payout
	err := db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

// FindExportRows flattens payouts with their job columns. The payee account
// falls back to the provider's current payout number when the payout row
// carries none.
func (r *payoutRepository) FindExportRows(ctx context.Context, db *gorm.DB, filter *entity.PayoutFilter) ([]entity.PayoutExportRow, error) {
	var rows []entity.PayoutExportRow
	query := db.WithContext(ctx).
		Table("payouts").
		Select(`payouts.id AS payout_id,
			payouts.payee_name,
			COALESCE(NULLIF(payouts.payee_account, ''), provider_profiles.payout_number, '') AS payee_account,
			COALESCE(services.type, '') AS service_type,
			payouts.booking_id,
			COALESCE(services.name, '') AS service_name,
			bookings.scheduled_date AS job_date,
			payouts.scheduled_date,
			payouts.amount,
			payouts.payout_type,
			COALESCE(payouts.notes, '') AS notes`).
		Joins("LEFT JOIN provider_profiles ON provider_profiles.user_id = payouts.provider_id").
		Joins("LEFT JOIN bookings ON bookings.id = payouts.booking_id").
		Joins("LEFT JOIN services ON services.id = bookings.service_id")

	err := applyPayoutFilter(query, filter).
		Order("payouts.scheduled_date ASC, payouts.payee_name ASC, payouts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *payoutRepository) UpdateStatus(ctx context.Context, db *gorm.DB, ids []uuid.UUID, fromStatus, toStatus entity.PayoutStatus, processedAt *time.Time, externalReference *string, notes string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	if processedAt != nil {
		updates["processed_at"] = *processedAt
	}
	if externalReference != nil {
		updates["external_reference"] = *externalReference
	}
	if notes != "" {
		updates["notes"] = notes
	}

	result := db.WithContext(ctx).Model(&entity.Payout{}).
		Where("id IN ? AND status = ?", ids, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func applyPayoutFilter(query *gorm.DB, filter *entity.PayoutFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Status != "" {
		query = query.Where("payouts.status = ?", filter.Status)
	}
	if filter.PayoutType != "" {
		query = query.Where("payouts.payout_type = ?", filter.PayoutType)
	}
	if filter.ProviderID != nil {
		query = query.Where("payouts.provider_id = ?", *filter.ProviderID)
	}
	if filter.From != nil {
		query = query.Where("payouts.scheduled_date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		query = query.Where("payouts.scheduled_date <= ?", filter.To.Format("2006-01-02"))
	}
	return query
}
