package repository

import (
	"context"
	"errors"

	"longa/internal/domain/entity"
	domainRepo "longa/internal/domain/repository"

	"gorm.io/gorm"
)

const defaultAuditLogLimit = 200

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return db.WithContext(ctx).Omit("User").Create(log).Error
}

func (r *auditLogRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	query := db.WithContext(ctx).Model(&entity.AuditLog{})

	limit := defaultAuditLogLimit
	if filter != nil {
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.EntityID != "" {
			query = query.Where("metadata->>'entity_id' = ?", filter.EntityID)
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}

	err := query.Preload("User.Role").Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.WithContext(ctx).Preload("User.Role").First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
