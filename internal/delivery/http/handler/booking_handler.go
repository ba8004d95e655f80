package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"longa/internal/delivery/dto"
	"longa/internal/service"
	"longa/internal/usecase"
	"longa/pkg/response"
	"longa/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingLifecycleUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingLifecycleUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// Client endpoints

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrServiceNotFound:
			response.NotFound(w, "Service not found")
		case usecase.ErrPackageItemNotFound:
			response.NotFound(w, "Package item not found")
		case usecase.ErrServiceInactive, usecase.ErrPackageItemMismatch:
			response.UnprocessableEntity(w, err.Error())
		case usecase.ErrScheduleInPast, usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// Provider endpoints

func (h *BookingHandler) GetProviderBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetProviderBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.providerAction(w, r, h.bookingUsecase.Accept, "Booking accepted")
}

func (h *BookingHandler) Begin(w http.ResponseWriter, r *http.Request) {
	h.providerAction(w, r, h.bookingUsecase.Begin, "Booking started")
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.providerAction(w, r, h.bookingUsecase.Complete, "Booking completed")
}

// Admin endpoints

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListBookingsRequest{
		Status:     q.Get("status"),
		ProviderID: q.Get("provider_id"),
		ClientID:   q.Get("client_id"),
		Location:   q.Get("location"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bookings, err := h.bookingUsecase.ListBookings(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidProviderID, usecase.ErrUserNotFound:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to get bookings")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		if err == usecase.ErrBookingNotFound {
			response.NotFound(w, "Booking not found")
			return
		}
		response.InternalServerError(w, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.bookingUsecase.Rollback, "Booking rolled back")
}

func (h *BookingHandler) CancelWithRefund(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.bookingUsecase.CancelWithRefund, "Booking cancelled, refund requested")
}

func (h *BookingHandler) MarkClientNoShow(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.bookingUsecase.MarkClientNoShow, "Client no-show recorded")
}

func (h *BookingHandler) MarkProviderNoShow(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.bookingUsecase.MarkProviderNoShow, "Provider no-show recorded")
}

type providerActionFunc func(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)

type adminActionFunc func(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)

func (h *BookingHandler) providerAction(w http.ResponseWriter, r *http.Request, action providerActionFunc, message string) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	booking, err := action(r.Context(), bookingID)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, message, booking)
}

func (h *BookingHandler) adminAction(w http.ResponseWriter, r *http.Request, action adminActionFunc, message string) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.BookingActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := action(r.Context(), bookingID, req.Reason)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, message, booking)
}

func bookingIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return uuid.Nil, false
	}
	return bookingID, true
}

// writeLifecycleError maps booking transition errors shared by the
// booking and assignment endpoints.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrBookingNotFound:
		response.NotFound(w, "Booking not found")
	case usecase.ErrReasonRequired, usecase.ErrProviderRequired, usecase.ErrInvalidProviderID:
		response.BadRequest(w, err.Error())
	case usecase.ErrInvalidTransition, usecase.ErrSameProvider, usecase.ErrPayoutAlreadyExists:
		response.Conflict(w, err.Error())
	case usecase.ErrNotAssignedProvider, usecase.ErrProviderProfileNotFound:
		response.Forbidden(w, err.Error())
	case usecase.ErrProviderNotEligible, service.ErrProviderFeeMissing, service.ErrInvalidCommissionPct:
		response.UnprocessableEntity(w, err.Error())
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "")
	default:
		response.InternalServerError(w, "Failed to update booking")
	}
}
