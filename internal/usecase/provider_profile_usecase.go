package usecase

import (
	"context"
	"errors"
	"strings"

	"longa/internal/converter"
	"longa/internal/delivery/dto"
	"longa/internal/delivery/http/middleware"
	"longa/internal/domain/entity"
	"longa/internal/domain/repository"
	"longa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

var maxRating = decimal.NewFromInt(5)

type ProviderProfileUsecase interface {
	ListProviders(ctx context.Context) (*dto.ProviderListResponse, error)
	GetProvider(ctx context.Context, userID uuid.UUID) (*dto.ProviderProfileResponse, error)
	GetMyProfile(ctx context.Context) (*dto.ProviderProfileResponse, error)
	UpdateProvider(ctx context.Context, userID uuid.UUID, req *dto.UpdateProviderProfileRequest) (*dto.ProviderProfileResponse, error)
	UpdateMyAvailability(ctx context.Context, req *dto.UpdateAvailabilityRequest) (*dto.ProviderProfileResponse, error)
}

type providerProfileUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	providerProfileRepo repository.ProviderProfileRepository
	providerPool        service.ProviderPool
	auditService        service.AuditService
}

func NewProviderProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	providerPool service.ProviderPool,
	auditService service.AuditService,
) ProviderProfileUsecase {
	return &providerProfileUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		providerProfileRepo: providerProfileRepo,
		providerPool:        providerPool,
		auditService:        auditService,
	}
}

func (u *providerProfileUsecase) ListProviders(ctx context.Context) (*dto.ProviderListResponse, error) {
	profiles, err := u.providerProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to list provider profiles: %+v", err)
		return nil, err
	}

	return &dto.ProviderListResponse{
		Providers: converter.ProviderProfilesToResponses(profiles),
		Total:     len(profiles),
	}, nil
}

func (u *providerProfileUsecase) GetProvider(ctx context.Context, userID uuid.UUID) (*dto.ProviderProfileResponse, error) {
	profile, err := u.findProfile(ctx, u.db, userID)
	if err != nil {
		return nil, err
	}
	return converter.ProviderProfileToResponse(profile), nil
}

func (u *providerProfileUsecase) GetMyProfile(ctx context.Context) (*dto.ProviderProfileResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return u.GetProvider(ctx, userID)
}

// UpdateProvider lets an admin change a provider's profile and account
// state. Any change can move the provider in or out of the candidate pool,
// so the pool cache is dropped afterwards.
func (u *providerProfileUsecase) UpdateProvider(ctx context.Context, userID uuid.UUID, req *dto.UpdateProviderProfileRequest) (*dto.ProviderProfileResponse, error) {
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(maxRating)) {
		return nil, ErrInvalidRating
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.findProfile(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	old := converter.ProviderProfileToResponse(profile)

	if req.Location != nil {
		profile.Location = strings.TrimSpace(*req.Location)
	}
	if req.IsAvailable != nil {
		profile.IsAvailable = *req.IsAvailable
	}
	if req.Rating != nil {
		profile.Rating = req.Rating.Round(2)
	}
	if req.PayoutMethod != nil {
		profile.PayoutMethod = *req.PayoutMethod
	}
	if req.PayoutNumber != nil {
		profile.PayoutNumber = strings.TrimSpace(*req.PayoutNumber)
	}
	if req.Biography != nil {
		profile.Biography = *req.Biography
	}

	if err := u.providerProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update provider profile %s: %+v", userID, err)
		return nil, err
	}

	if req.IsActive != nil && profile.User.Active() != *req.IsActive {
		active := *req.IsActive
		profile.User.IsActive = &active
		if err := u.userRepo.Update(ctx, tx, &profile.User); err != nil {
			u.log.Warnf("Failed to update user %s: %+v", userID, err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidatePool(ctx)

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	resp := converter.ProviderProfileToResponse(profile)
	u.auditService.LogUpdate(ctx, u.db, &adminID, entity.AuditActionProviderUpdate, "provider_profile", userID.String(), old, resp)

	u.log.Infof("Provider profile updated: id=%s", userID)
	return resp, nil
}

func (u *providerProfileUsecase) UpdateMyAvailability(ctx context.Context, req *dto.UpdateAvailabilityRequest) (*dto.ProviderProfileResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	profile, err := u.findProfile(ctx, u.db, userID)
	if err != nil {
		return nil, err
	}

	if req.IsAvailable != nil && profile.IsAvailable != *req.IsAvailable {
		profile.IsAvailable = *req.IsAvailable
		if err := u.providerProfileRepo.Update(ctx, u.db, profile); err != nil {
			u.log.Warnf("Failed to update availability for provider %s: %+v", userID, err)
			return nil, err
		}
		u.invalidatePool(ctx)
		u.log.Infof("Provider availability changed: id=%s, available=%t", userID, profile.IsAvailable)
	}

	return converter.ProviderProfileToResponse(profile), nil
}

func (u *providerProfileUsecase) findProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error) {
	profile, err := u.providerProfileRepo.FindByUserID(ctx, db, userID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProviderProfileNotFound
	}
	return profile, nil
}

func (u *providerProfileUsecase) invalidatePool(ctx context.Context) {
	if err := u.providerPool.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate provider pool (non-fatal): %+v", err)
	}
}
