package handler

import (
	"encoding/json"
	"net/http"

	"longa/internal/delivery/dto"
	"longa/internal/usecase"
	"longa/pkg/response"
	"longa/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ServiceHandler struct {
	serviceUsecase usecase.ServiceCatalogUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(serviceUsecase usecase.ServiceCatalogUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

// ListActiveServices is the public catalog.
func (h *ServiceHandler) ListActiveServices(w http.ResponseWriter, r *http.Request) {
	h.listServices(w, r, true)
}

func (h *ServiceHandler) ListAllServices(w http.ResponseWriter, r *http.Request) {
	h.listServices(w, r, false)
}

func (h *ServiceHandler) listServices(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	services, err := h.serviceUsecase.ListServices(r.Context(), onlyActive)
	if err != nil {
		response.InternalServerError(w, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := serviceIDFromPath(w, r)
	if !ok {
		return
	}

	svc, err := h.serviceUsecase.GetService(r.Context(), serviceID)
	if err != nil {
		if err == usecase.ErrServiceNotFound {
			response.NotFound(w, "Service not found")
			return
		}
		response.InternalServerError(w, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", svc)
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.serviceUsecase.CreateService(r.Context(), &req)
	if err != nil {
		writeCatalogError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", svc)
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := serviceIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.serviceUsecase.UpdateService(r.Context(), serviceID, &req)
	if err != nil {
		writeCatalogError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", svc)
}

func (h *ServiceHandler) AddPackageItem(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := serviceIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.AddPackageItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	item, err := h.serviceUsecase.AddPackageItem(r.Context(), serviceID, &req)
	if err != nil {
		writeCatalogError(w, err, "Failed to add package item")
		return
	}

	response.Success(w, http.StatusCreated, "Package item added successfully", item)
}

func serviceIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	serviceID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return uuid.Nil, false
	}
	return serviceID, true
}

func writeCatalogError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrServiceNotFound:
		response.NotFound(w, "Service not found")
	case usecase.ErrInvalidPrice, usecase.ErrInvalidProviderFee, usecase.ErrInvalidCommission:
		response.BadRequest(w, err.Error())
	case usecase.ErrNotPackageService, usecase.ErrPackageItemMismatch:
		response.UnprocessableEntity(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
