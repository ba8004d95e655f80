package handler

import (
	"encoding/json"
	"net/http"

	"longa/internal/delivery/dto"
	"longa/internal/usecase"
	"longa/pkg/response"
	"longa/pkg/validator"
)

type AssignmentHandler struct {
	assignmentUsecase usecase.ProviderAssignmentUsecase
	validator         *validator.CustomValidator
}

func NewAssignmentHandler(assignmentUsecase usecase.ProviderAssignmentUsecase, validator *validator.CustomValidator) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentUsecase: assignmentUsecase,
		validator:         validator,
	}
}

// ListCandidates returns the providers a booking can be handed to.
// Query: search, location, availability (available|unavailable).
func (h *AssignmentHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := dto.CandidateFilterRequest{
		Search:       q.Get("search"),
		Location:     q.Get("location"),
		Availability: q.Get("availability"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	candidates, err := h.assignmentUsecase.ListCandidates(r.Context(), bookingID, &req)
	if err != nil {
		if err == usecase.ErrBookingNotFound {
			response.NotFound(w, "Booking not found")
			return
		}
		response.InternalServerError(w, "Failed to get candidates")
		return
	}

	response.Success(w, http.StatusOK, "Candidates retrieved successfully", candidates)
}

// Reassign does not run the struct validator: blank provider and reason are
// rejected by the usecase with their own messages.
func (h *AssignmentHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	booking, err := h.assignmentUsecase.Reassign(r.Context(), bookingID, &req)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking reassigned successfully", booking)
}

func (h *AssignmentHandler) GetAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	history, err := h.assignmentUsecase.GetAssignmentHistory(r.Context(), bookingID)
	if err != nil {
		if err == usecase.ErrBookingNotFound {
			response.NotFound(w, "Booking not found")
			return
		}
		response.InternalServerError(w, "Failed to get assignment history")
		return
	}

	response.Success(w, http.StatusOK, "Assignment history retrieved successfully", history)
}
