package repository

import (
	"context"
	"time"

	"longa/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutRepository interface {
	Create(ctx context.Context, db *gorm.DB, payout *entity.Payout) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Payout, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.PayoutFilter) ([]entity.Payout, error)
	FindByBookingID(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.Payout, error)
	FindExportRows(ctx context.Context, db *gorm.DB, filter *entity.PayoutFilter) ([]entity.PayoutExportRow, error)
	// UpdateStatus moves payouts still in fromStatus to toStatus and returns affected rows.
	UpdateStatus(ctx context.Context, db *gorm.DB, ids []uuid.UUID, fromStatus, toStatus entity.PayoutStatus, processedAt *time.Time, externalReference *string, notes string) (int64, error)
}
