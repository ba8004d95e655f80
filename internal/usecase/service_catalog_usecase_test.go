package usecase

import (
	"testing"

	"longa/internal/delivery/dto"
	"longa/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newServiceCatalogUsecase(t *testing.T) (ServiceCatalogUsecase, *mockServiceRepo) {
	db, _ := setupMockDB(t)
	serviceRepo := new(mockServiceRepo)
	t.Cleanup(func() { serviceRepo.AssertExpectations(t) })
	return NewServiceCatalogUsecase(db, quietLogger(), serviceRepo, new(mockAuditService).acceptAudits()), serviceRepo
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateServiceRequest
		want error
	}{
		{
			name: "zero price",
			req:  dto.CreateServiceRequest{Name: "Laundry", Type: "one_off", ClientPrice: decimal.Zero, DurationMinutes: 60},
			want: ErrInvalidPrice,
		},
		{
			name: "commission above 100",
			req:  dto.CreateServiceRequest{Name: "Laundry", Type: "one_off", ClientPrice: decimal.NewFromInt(300), CommissionPercentage: decPtr("100.5"), DurationMinutes: 60},
			want: ErrInvalidCommission,
		},
		{
			name: "negative provider fee",
			req:  dto.CreateServiceRequest{Name: "Weekly Clean", Type: "subscription", ClientPrice: decimal.NewFromInt(2000), ProviderFee: decPtr("-1"), DurationMinutes: 120},
			want: ErrInvalidProviderFee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newServiceCatalogUsecase(t)

			_, err := uc.CreateService(ctxWithUser(uuid.New(), entity.RoleIDAdmin), &tt.req)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateService_DropsFieldsOfOtherModel(t *testing.T) {
	uc, serviceRepo := newServiceCatalogUsecase(t)
	serviceRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *entity.Service) bool {
		return s.Type == entity.ServiceTypeSubscription &&
			s.CommissionPercentage == nil &&
			s.ProviderFee.Equal(decimal.NewFromInt(400)) &&
			s.Tags == "home,weekly" &&
			s.Status == entity.ServiceStatusActive
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*entity.Service).ID = uuid.New()
	}).Return(nil)

	resp, err := uc.CreateService(ctxWithUser(uuid.New(), entity.RoleIDAdmin), &dto.CreateServiceRequest{
		Name:                 " Weekly Clean ",
		Type:                 "subscription",
		ClientPrice:          decimal.NewFromInt(2000),
		CommissionPercentage: decPtr("20"),
		ProviderFee:          decPtr("400"),
		DurationMinutes:      120,
		Tags:                 []string{" home ", "", "weekly"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Weekly Clean", resp.Name)
	assert.Equal(t, []string{"home", "weekly"}, resp.Tags)
}

func TestUpdateService_Deactivate(t *testing.T) {
	uc, serviceRepo := newServiceCatalogUsecase(t)
	svc := oneOffService(500)
	serviceRepo.On("FindByID", mock.Anything, mock.Anything, svc.ID).Return(&svc, nil)
	serviceRepo.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(s *entity.Service) bool {
		return s.Status == entity.ServiceStatusInactive
	})).Return(nil)

	inactive := "inactive"
	resp, err := uc.UpdateService(ctxWithUser(uuid.New(), entity.RoleIDAdmin), svc.ID, &dto.UpdateServiceRequest{Status: &inactive})

	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)
}

func TestAddPackageItem(t *testing.T) {
	admin := ctxWithUser(uuid.New(), entity.RoleIDAdmin)

	t.Run("only subscription services hold items", func(t *testing.T) {
		uc, serviceRepo := newServiceCatalogUsecase(t)
		pkg := oneOffService(500)
		serviceRepo.On("FindByID", mock.Anything, mock.Anything, pkg.ID).Return(&pkg, nil)

		_, err := uc.AddPackageItem(admin, pkg.ID, &dto.AddPackageItemRequest{
			IncludedServiceID: uuid.NewString(),
			Quantity:          2,
			ProviderFeePerJob: decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, ErrNotPackageService)
	})

	t.Run("adds item", func(t *testing.T) {
		uc, serviceRepo := newServiceCatalogUsecase(t)
		pkg := oneOffService(2000)
		pkg.Type = entity.ServiceTypeSubscription
		included := oneOffService(300)
		included.Name = "Ironing"
		serviceRepo.On("FindByID", mock.Anything, mock.Anything, pkg.ID).Return(&pkg, nil)
		serviceRepo.On("FindByID", mock.Anything, mock.Anything, included.ID).Return(&included, nil)
		serviceRepo.On("AddPackageItem", mock.Anything, mock.Anything, mock.MatchedBy(func(i *entity.ServicePackageItem) bool {
			return i.PackageServiceID == pkg.ID && i.IncludedServiceID == included.ID && i.Quantity == 4
		})).Return(nil)

		resp, err := uc.AddPackageItem(admin, pkg.ID, &dto.AddPackageItemRequest{
			IncludedServiceID: included.ID.String(),
			Quantity:          4,
			ProviderFeePerJob: decimal.NewFromInt(150),
		})

		require.NoError(t, err)
		assert.Equal(t, "Ironing", resp.IncludedServiceName)
		assert.True(t, resp.ProviderFeePerJob.Equal(decimal.NewFromInt(150)))
	})

	t.Run("negative fee", func(t *testing.T) {
		uc, _ := newServiceCatalogUsecase(t)

		_, err := uc.AddPackageItem(admin, uuid.New(), &dto.AddPackageItemRequest{
			IncludedServiceID: uuid.NewString(),
			Quantity:          1,
			ProviderFeePerJob: decimal.NewFromInt(-10),
		})

		assert.ErrorIs(t, err, ErrInvalidProviderFee)
	})
}
