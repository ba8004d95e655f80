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
	ErrServiceNotFound     = errors.New("service not found")
	ErrServiceInactive     = errors.New("service is not available for booking")
	ErrPackageItemNotFound = errors.New("package item not found")
	ErrNotPackageService   = errors.New("package items can only be added to subscription services")
	ErrInvalidPrice        = errors.New("price must be greater than zero")
	ErrInvalidProviderFee  = errors.New("provider fee must not be negative")
	ErrInvalidCommission   = errors.New("commission percentage must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

type ServiceCatalogUsecase interface {
	CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID uuid.UUID, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	GetService(ctx context.Context, serviceID uuid.UUID) (*dto.ServiceResponse, error)
	ListServices(ctx context.Context, onlyActive bool) (*dto.ServiceListResponse, error)
	AddPackageItem(ctx context.Context, serviceID uuid.UUID, req *dto.AddPackageItemRequest) (*dto.PackageItemResponse, error)
}

type serviceCatalogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	serviceRepo  repository.ServiceRepository
	auditService service.AuditService
}

func NewServiceCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
) ServiceCatalogUsecase {
	return &serviceCatalogUsecase{
		db:           db,
		log:          log,
		serviceRepo:  serviceRepo,
		auditService: auditService,
	}
}

func (u *serviceCatalogUsecase) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	serviceType, err := entity.ParseServiceType(req.Type)
	if err != nil {
		return nil, err
	}

	svc := &entity.Service{
		Name:                 strings.TrimSpace(req.Name),
		Type:                 serviceType,
		ClientPrice:          req.ClientPrice,
		CommissionPercentage: req.CommissionPercentage,
		ProviderFee:          req.ProviderFee,
		DurationMinutes:      req.DurationMinutes,
		Status:               entity.ServiceStatusActive,
		Description:          req.Description,
	}
	svc.SetTags(req.Tags)

	if err := validatePricing(svc); err != nil {
		return nil, err
	}

	if err := u.serviceRepo.Create(ctx, u.db, svc); err != nil {
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, err
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	u.auditService.LogCreate(ctx, u.db, &adminID, entity.AuditActionServiceCreate, "service", svc.ID.String(), svc)

	u.log.Infof("Service created: id=%s, name=%s, type=%s", svc.ID, svc.Name, svc.Type)
	return converter.ServiceToResponse(svc), nil
}

func (u *serviceCatalogUsecase) UpdateService(ctx context.Context, serviceID uuid.UUID, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := u.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	old := *svc

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClientPrice != nil {
		svc.ClientPrice = *req.ClientPrice
	}
	if req.CommissionPercentage != nil {
		svc.CommissionPercentage = req.CommissionPercentage
	}
	if req.ProviderFee != nil {
		svc.ProviderFee = req.ProviderFee
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		svc.Status = entity.ServiceStatus(*req.Status)
	}
	if req.Tags != nil {
		svc.SetTags(req.Tags)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}

	if err := validatePricing(svc); err != nil {
		return nil, err
	}

	if err := u.serviceRepo.Update(ctx, u.db, svc); err != nil {
		u.log.Warnf("Failed to update service %s: %+v", serviceID, err)
		return nil, err
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	old.PackageItems = nil
	u.auditService.LogUpdate(ctx, u.db, &adminID, entity.AuditActionServiceUpdate, "service", svc.ID.String(), old, svc)

	u.log.Infof("Service updated: id=%s", svc.ID)
	return converter.ServiceToResponse(svc), nil
}

func (u *serviceCatalogUsecase) GetService(ctx context.Context, serviceID uuid.UUID) (*dto.ServiceResponse, error) {
	svc, err := u.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return converter.ServiceToResponse(svc), nil
}

func (u *serviceCatalogUsecase) ListServices(ctx context.Context, onlyActive bool) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAll(ctx, u.db, onlyActive)
	if err != nil {
		u.log.Warnf("Failed to list services: %+v", err)
		return nil, err
	}

	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(services),
		Total:    len(services),
	}, nil
}

// AddPackageItem adds an inclusion line to a subscription package. Jobs
// booked against the line pay the provider ProviderFeePerJob.
func (u *serviceCatalogUsecase) AddPackageItem(ctx context.Context, serviceID uuid.UUID, req *dto.AddPackageItemRequest) (*dto.PackageItemResponse, error) {
	if req.ProviderFeePerJob.IsNegative() {
		return nil, ErrInvalidProviderFee
	}

	includedID, err := uuid.Parse(req.IncludedServiceID)
	if err != nil {
		return nil, ErrServiceNotFound
	}

	pkg, err := u.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if pkg.Type != entity.ServiceTypeSubscription {
		return nil, ErrNotPackageService
	}
	if includedID == pkg.ID {
		return nil, ErrPackageItemMismatch
	}

	included, err := u.findService(ctx, includedID)
	if err != nil {
		return nil, err
	}

	item := &entity.ServicePackageItem{
		PackageServiceID:  pkg.ID,
		IncludedServiceID: included.ID,
		Quantity:          req.Quantity,
		ProviderFeePerJob: req.ProviderFeePerJob,
	}

	if err := u.serviceRepo.AddPackageItem(ctx, u.db, item); err != nil {
		u.log.Warnf("Failed to add package item to service %s: %+v", pkg.ID, err)
		return nil, err
	}
	item.IncludedService = included

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	u.auditService.LogCreate(ctx, u.db, &adminID, entity.AuditActionServiceUpdate, "service", pkg.ID.String(), map[string]interface{}{
		"package_item_id":      item.ID,
		"included_service_id":  included.ID,
		"quantity":             item.Quantity,
		"provider_fee_per_job": item.ProviderFeePerJob,
	})

	return converter.PackageItemToResponse(item), nil
}

func (u *serviceCatalogUsecase) findService(ctx context.Context, serviceID uuid.UUID) (*entity.Service, error) {
	svc, err := u.serviceRepo.FindByID(ctx, u.db, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// validatePricing checks the money fields and drops the one that does not
// apply to the service's payout model.
func validatePricing(svc *entity.Service) error {
	if !svc.ClientPrice.IsPositive() {
		return ErrInvalidPrice
	}

	switch svc.Type {
	case entity.ServiceTypeOneOff:
		svc.ProviderFee = nil
		if pct := svc.CommissionPercentage; pct != nil && (pct.IsNegative() || pct.GreaterThan(hundred)) {
			return ErrInvalidCommission
		}
	case entity.ServiceTypeSubscription:
		svc.CommissionPercentage = nil
		if svc.ProviderFee != nil && svc.ProviderFee.IsNegative() {
			return ErrInvalidProviderFee
		}
	}
	return nil
}
