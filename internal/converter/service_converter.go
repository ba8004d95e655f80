package converter

import (
	"longa/internal/delivery/dto"
	"longa/internal/domain/entity"
)

func ServiceToResponse(svc *entity.Service) *dto.ServiceResponse {
	if svc == nil {
		return nil
	}

	tags := svc.TagList()
	if tags == nil {
		tags = []string{}
	}

	resp := &dto.ServiceResponse{
		ID:                   svc.ID,
		Name:                 svc.Name,
		Type:                 string(svc.Type),
		ClientPrice:          svc.ClientPrice,
		CommissionPercentage: svc.CommissionPercentage,
		ProviderFee:          svc.ProviderFee,
		DurationMinutes:      svc.DurationMinutes,
		Status:               string(svc.Status),
		Tags:                 tags,
		Description:          svc.Description,
		CreatedAt:            svc.CreatedAt,
		UpdatedAt:            svc.UpdatedAt,
	}

	for _, item := range svc.PackageItems {
		resp.PackageItems = append(resp.PackageItems, *PackageItemToResponse(&item))
	}
	return resp
}

func ServicesToResponses(services []entity.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, len(services))
	for i := range services {
		responses[i] = *ServiceToResponse(&services[i])
	}
	return responses
}

func PackageItemToResponse(item *entity.ServicePackageItem) *dto.PackageItemResponse {
	resp := &dto.PackageItemResponse{
		ID:                item.ID,
		IncludedServiceID: item.IncludedServiceID,
		Quantity:          item.Quantity,
		ProviderFeePerJob: item.ProviderFeePerJob,
	}
	if item.IncludedService != nil {
		resp.IncludedServiceName = item.IncludedService.Name
	}
	return resp
}
