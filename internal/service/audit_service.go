package service

import (
	"context"

	"longa/internal/domain/entity"
	"longa/internal/domain/repository"
	"longa/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes one audited change. Extra is merged into metadata
// next to the standard keys.
type AuditEntry struct {
	UserID     *uuid.UUID
	Action     string
	EntityName string
	EntityID   string
	OldValue   interface{}
	NewValue   interface{}
	Reason     string
	Extra      entity.JSON
}

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	Log(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.Log(ctx, tx, AuditEntry{
		UserID:     userID,
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		NewValue:   newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.Log(ctx, tx, AuditEntry{
		UserID:     userID,
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}

func (s *auditService) Log(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	metadata := entity.JSON{
		"entity":    entry.EntityName,
		"entity_id": entry.EntityID,
		"old_value": entry.OldValue,
		"new_value": entry.NewValue,
	}
	if entry.Reason != "" {
		metadata["reason"] = entry.Reason
	}
	for k, v := range entry.Extra {
		metadata[k] = v
	}

	auditLog := &entity.AuditLog{
		UserID:   entry.UserID,
		Action:   entry.Action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		metrics.RecordSecondaryWriteFailure("audit")
		return err
	}

	return nil
}
