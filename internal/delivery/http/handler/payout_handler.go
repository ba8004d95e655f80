package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"longa/internal/delivery/dto"
	"longa/internal/usecase"
	"longa/pkg/response"
	"longa/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const csvContentType = "text/csv; charset=utf-8"

type PayoutHandler struct {
	payoutUsecase usecase.PayoutUsecase
	validator     *validator.CustomValidator
}

func NewPayoutHandler(payoutUsecase usecase.PayoutUsecase, validator *validator.CustomValidator) *PayoutHandler {
	return &PayoutHandler{
		payoutUsecase: payoutUsecase,
		validator:     validator,
	}
}

func (h *PayoutHandler) CreateManualPayout(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateManualPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payout, err := h.payoutUsecase.CreateManualPayout(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAmount, usecase.ErrInvalidDateFormat, usecase.ErrInvalidProviderID:
			response.BadRequest(w, err.Error())
		case usecase.ErrProviderProfileNotFound:
			response.NotFound(w, "Provider not found")
		default:
			response.InternalServerError(w, "Failed to create payout")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Payout created successfully", payout)
}

func (h *PayoutHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListPayoutsRequest{
		Status:     q.Get("status"),
		PayoutType: q.Get("type"),
		ProviderID: q.Get("provider_id"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payouts, err := h.payoutUsecase.ListPayouts(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidDateRange, usecase.ErrInvalidProviderID:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to get payouts")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payouts retrieved successfully", payouts)
}

func (h *PayoutHandler) GetPayout(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := payoutIDFromPath(w, r)
	if !ok {
		return
	}

	payout, err := h.payoutUsecase.GetPayout(r.Context(), payoutID)
	if err != nil {
		if err == usecase.ErrPayoutNotFound {
			response.NotFound(w, "Payout not found")
			return
		}
		response.InternalServerError(w, "Failed to get payout")
		return
	}

	response.Success(w, http.StatusOK, "Payout retrieved successfully", payout)
}

func (h *PayoutHandler) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := payoutIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.ProcessPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payout, err := h.payoutUsecase.MarkProcessed(r.Context(), payoutID, &req)
	if err != nil {
		writeSettleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Payout marked processed", payout)
}

func (h *PayoutHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := payoutIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.FailPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payout, err := h.payoutUsecase.MarkFailed(r.Context(), payoutID, &req)
	if err != nil {
		writeSettleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Payout marked failed", payout)
}

// Export downloads the payout CSV without changing any payout. Query: from,
// to (YYYY-MM-DD, required), status (default pending).
func (h *PayoutHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("mark_processed") {
		response.BadRequest(w, "mark_processed is not accepted on GET; use POST to export and mark")
		return
	}
	h.export(w, r, false)
}

// ExportAndMark downloads the CSV and marks every exported pending payout
// processed in the same transaction.
func (h *PayoutHandler) ExportAndMark(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, true)
}

func (h *PayoutHandler) export(w http.ResponseWriter, r *http.Request, mark bool) {
	q := r.URL.Query()
	req := dto.ExportPayoutsRequest{
		From:          q.Get("from"),
		To:            q.Get("to"),
		Status:        q.Get("status"),
		MarkProcessed: mark,
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	export, err := h.payoutUsecase.Export(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidDateRange, usecase.ErrMarkRequiresPending:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to export payouts")
		}
		return
	}

	w.Header().Set("X-Export-Rows", strconv.Itoa(export.Rows))
	w.Header().Set("X-Export-Marked", strconv.FormatInt(export.Marked, 10))
	response.Attachment(w, csvContentType, export.Filename, export.Content)
}

func payoutIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	payoutID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payout ID", nil)
		return uuid.Nil, false
	}
	return payoutID, true
}

func writeSettleError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrPayoutNotFound:
		response.NotFound(w, "Payout not found")
	case usecase.ErrPayoutNotPending:
		response.Conflict(w, err.Error())
	case usecase.ErrReasonRequired:
		response.BadRequest(w, err.Error())
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "")
	default:
		response.InternalServerError(w, "Failed to update payout")
	}
}
