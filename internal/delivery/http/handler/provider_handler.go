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

type ProviderHandler struct {
	providerUsecase usecase.ProviderProfileUsecase
	validator       *validator.CustomValidator
}

func NewProviderHandler(providerUsecase usecase.ProviderProfileUsecase, validator *validator.CustomValidator) *ProviderHandler {
	return &ProviderHandler{
		providerUsecase: providerUsecase,
		validator:       validator,
	}
}

func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providerUsecase.ListProviders(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get providers")
		return
	}

	response.Success(w, http.StatusOK, "Providers retrieved successfully", providers)
}

func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	provider, err := h.providerUsecase.GetProvider(r.Context(), providerID)
	if err != nil {
		if err == usecase.ErrProviderProfileNotFound {
			response.NotFound(w, "Provider not found")
			return
		}
		response.InternalServerError(w, "Failed to get provider")
		return
	}

	response.Success(w, http.StatusOK, "Provider retrieved successfully", provider)
}

func (h *ProviderHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	var req dto.UpdateProviderProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	provider, err := h.providerUsecase.UpdateProvider(r.Context(), providerID, &req)
	if err != nil {
		switch err {
		case usecase.ErrProviderProfileNotFound:
			response.NotFound(w, "Provider not found")
		case usecase.ErrInvalidRating:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update provider")
		}
		return
	}

	response.Success(w, http.StatusOK, "Provider updated successfully", provider)
}

func (h *ProviderHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerUsecase.GetMyProfile(r.Context())
	if err != nil {
		if err == usecase.ErrProviderProfileNotFound {
			response.NotFound(w, "Provider profile not found")
			return
		}
		response.InternalServerError(w, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", provider)
}

func (h *ProviderHandler) UpdateMyAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	provider, err := h.providerUsecase.UpdateMyAvailability(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrProviderProfileNotFound {
			response.NotFound(w, "Provider profile not found")
			return
		}
		response.InternalServerError(w, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", provider)
}
