package repository

import (
	"context"

	"longa/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.ProviderProfile, error)
	// FindActiveCandidates returns active provider accounts in insertion order.
	FindActiveCandidates(ctx context.Context, db *gorm.DB) ([]entity.ProviderCandidate, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error
}

type ClientProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.ClientProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ClientProfile, error)
}
