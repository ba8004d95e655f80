package repository

import (
	"context"

	"longa/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, db *gorm.DB, service *entity.Service) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Service, error)
	FindAll(ctx context.Context, db *gorm.DB, onlyActive bool) ([]entity.Service, error)
	Update(ctx context.Context, db *gorm.DB, service *entity.Service) error
	AddPackageItem(ctx context.Context, db *gorm.DB, item *entity.ServicePackageItem) error
	FindPackageItem(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.ServicePackageItem, error)
}
