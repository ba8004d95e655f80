package repository

import (
	"context"
	"errors"

	"longa/internal/domain/entity"
	domainRepo "longa/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider Profile Repository

type providerProfileRepository struct{}

func NewProviderProfileRepository() domainRepo.ProviderProfileRepository {
	return &providerProfileRepository{}
}

func (r *providerProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return db.WithContext(ctx).Omit("User").Create(profile).Error
}

func (r *providerProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error) {
	var profile entity.ProviderProfile
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *providerProfileRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.ProviderProfile, error) {
	var profiles []entity.ProviderProfile
	err := db.WithContext(ctx).Preload("User").Order("created_at ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *providerProfileRepository) FindActiveCandidates(ctx context.Context, db *gorm.DB) ([]entity.ProviderCandidate, error) {
	var candidates []entity.ProviderCandidate
	err := db.WithContext(ctx).
		Table("users").
		Select("users.id, users.full_name, users.phone, provider_profiles.location, provider_profiles.is_available, provider_profiles.rating").
		Joins("JOIN provider_profiles ON provider_profiles.user_id = users.id").
		Where("users.role_id = ? AND users.is_active = ?", entity.RoleIDProvider, true).
		Order("users.created_at ASC, users.id ASC").
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *providerProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return db.WithContext(ctx).Omit("User", "CreatedAt").Save(profile).Error
}

// Client Profile Repository

type clientProfileRepository struct{}

func NewClientProfileRepository() domainRepo.ClientProfileRepository {
	return &clientProfileRepository{}
}

func (r *clientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.ClientProfile) error {
	return db.WithContext(ctx).Omit("User", "Bookings").Create(profile).Error
}

func (r *clientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ClientProfile, error) {
	var profile entity.ClientProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
