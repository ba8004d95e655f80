package repository

import (
	"context"
	"errors"

	"longa/internal/domain/entity"
	domainRepo "longa/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceRepository struct{}

func NewServiceRepository() domainRepo.ServiceRepository {
	return &serviceRepository{}
}

func (r *serviceRepository) Create(ctx context.Context, db *gorm.DB, service *entity.Service) error {
	return db.WithContext(ctx).Omit("PackageItems").Create(service).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	var service entity.Service
	err := db.WithContext(ctx).
		Preload("PackageItems.IncludedService").
		Where("id = ?", id).
		First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) FindAll(ctx context.Context, db *gorm.DB, onlyActive bool) ([]entity.Service, error) {
	var services []entity.Service
	query := db.WithContext(ctx).Model(&entity.Service{})
	if onlyActive {
		query = query.Where("status = ?", entity.ServiceStatusActive)
	}
	err := query.Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, db *gorm.DB, service *entity.Service) error {
	return db.WithContext(ctx).Omit("PackageItems", "CreatedAt").Save(service).Error
}

func (r *serviceRepository) AddPackageItem(ctx context.Context, db *gorm.DB, item *entity.ServicePackageItem) error {
	return db.WithContext(ctx).Omit("IncludedService").Create(item).Error
}

func (r *serviceRepository) FindPackageItem(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.ServicePackageItem, error) {
	var item entity.ServicePackageItem
	err := db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
