package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"longa/internal/delivery/dto"
	"longa/internal/service"
	"longa/internal/usecase"
	"longa/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newBookingHandler(t *testing.T) (*BookingHandler, *mockBookingUsecase) {
	uc := new(mockBookingUsecase)
	t.Cleanup(func() { uc.AssertExpectations(t) })
	return NewBookingHandler(uc, validator.NewValidator()), uc
}

func TestCreateBookingHandler(t *testing.T) {
	valid := map[string]interface{}{
		"service_id":     uuid.NewString(),
		"scheduled_date": "2026-10-30",
		"scheduled_time": "09:30",
		"location":       "Kilimani",
	}

	t.Run("malformed body", func(t *testing.T) {
		h, _ := newBookingHandler(t)
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, newRequest(t, http.MethodPost, "/", "{", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeResponse(t, rec).Message)
	})

	t.Run("validation errors", func(t *testing.T) {
		h, _ := newBookingHandler(t)
		body := map[string]interface{}{
			"service_id":     "not-a-uuid",
			"scheduled_date": "30/10/2026",
			"scheduled_time": "9am",
			"location":       "   ",
		}
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, newRequest(t, http.MethodPost, "/", body, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "Validation failed", resp.Message)
		fields := resp.Error.(map[string]interface{})
		assert.Contains(t, fields, "service_id")
		assert.Contains(t, fields, "scheduled_date")
		assert.Contains(t, fields, "scheduled_time")
		assert.Contains(t, fields, "location")
	})

	t.Run("inactive service", func(t *testing.T) {
		h, uc := newBookingHandler(t)
		uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, usecase.ErrServiceInactive)

		rec := httptest.NewRecorder()
		h.CreateBooking(rec, newRequest(t, http.MethodPost, "/", valid, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		h, uc := newBookingHandler(t)
		id := uuid.New()
		uc.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *dto.CreateBookingRequest) bool {
			return req.Location == "Kilimani" && req.ScheduledTime == "09:30"
		})).Return(&dto.BookingResponse{ID: id, Status: "pending"}, nil)

		rec := httptest.NewRecorder()
		h.CreateBooking(rec, newRequest(t, http.MethodPost, "/", valid, nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, id.String(), resp.Data.(map[string]interface{})["id"])
	})
}

func TestProviderActionHandlers(t *testing.T) {
	bookingID := uuid.New()
	vars := map[string]string{"id": bookingID.String()}

	tests := []struct {
		name   string
		method string
		call   func(h *BookingHandler) http.HandlerFunc
		err    error
		want   int
	}{
		{"accept ok", "Accept", func(h *BookingHandler) http.HandlerFunc { return h.Accept }, nil, http.StatusOK},
		{"accept lost race", "Accept", func(h *BookingHandler) http.HandlerFunc { return h.Accept }, usecase.ErrInvalidTransition, http.StatusConflict},
		{"begin not assigned", "Begin", func(h *BookingHandler) http.HandlerFunc { return h.Begin }, usecase.ErrNotAssignedProvider, http.StatusForbidden},
		{"complete fee missing", "Complete", func(h *BookingHandler) http.HandlerFunc { return h.Complete }, service.ErrProviderFeeMissing, http.StatusUnprocessableEntity},
		{"complete duplicate payout", "Complete", func(h *BookingHandler) http.HandlerFunc { return h.Complete }, usecase.ErrPayoutAlreadyExists, http.StatusConflict},
		{"complete not found", "Complete", func(h *BookingHandler) http.HandlerFunc { return h.Complete }, usecase.ErrBookingNotFound, http.StatusNotFound},
		{"unexpected error", "Begin", func(h *BookingHandler) http.HandlerFunc { return h.Begin }, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, uc := newBookingHandler(t)
			if tt.err != nil {
				uc.On(tt.method, mock.Anything, bookingID).Return(nil, tt.err)
			} else {
				uc.On(tt.method, mock.Anything, bookingID).Return(&dto.BookingResponse{ID: bookingID}, nil)
			}

			rec := httptest.NewRecorder()
			tt.call(h)(rec, newRequest(t, http.MethodPost, "/", nil, vars))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestProviderActionInvalidID(t *testing.T) {
	h, _ := newBookingHandler(t)
	rec := httptest.NewRecorder()
	h.Accept(rec, newRequest(t, http.MethodPost, "/", nil, map[string]string{"id": "42"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid booking ID", decodeResponse(t, rec).Message)
}

func TestAdminActionHandlers(t *testing.T) {
	bookingID := uuid.New()
	vars := map[string]string{"id": bookingID.String()}

	t.Run("reason required by validator", func(t *testing.T) {
		h, _ := newBookingHandler(t)
		rec := httptest.NewRecorder()
		h.Rollback(rec, newRequest(t, http.MethodPost, "/", map[string]string{"reason": "  "}, vars))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", decodeResponse(t, rec).Message)
	})

	t.Run("cancel with refund", func(t *testing.T) {
		h, uc := newBookingHandler(t)
		uc.On("CancelWithRefund", mock.Anything, bookingID, "client paid twice").
			Return(&dto.BookingResponse{ID: bookingID, Status: "cancelled"}, nil)

		rec := httptest.NewRecorder()
		h.CancelWithRefund(rec, newRequest(t, http.MethodPost, "/", map[string]string{"reason": "client paid twice"}, vars))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Booking cancelled, refund requested", decodeResponse(t, rec).Message)
	})

	t.Run("no-show on completed booking", func(t *testing.T) {
		h, uc := newBookingHandler(t)
		uc.On("MarkProviderNoShow", mock.Anything, bookingID, "never arrived").Return(nil, usecase.ErrInvalidTransition)

		rec := httptest.NewRecorder()
		h.MarkProviderNoShow(rec, newRequest(t, http.MethodPost, "/", map[string]string{"reason": "never arrived"}, vars))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListBookingsHandler(t *testing.T) {
	t.Run("bad status filter", func(t *testing.T) {
		h, _ := newBookingHandler(t)
		rec := httptest.NewRecorder()
		h.ListBookings(rec, newRequest(t, http.MethodGet, "/?status=archived", nil, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filters forwarded", func(t *testing.T) {
		h, uc := newBookingHandler(t)
		uc.On("ListBookings", mock.Anything, &dto.ListBookingsRequest{
			Status:   "in_progress",
			Location: "Westlands",
			From:     "2026-10-01",
			To:       "2026-10-31",
		}).Return(&dto.BookingListResponse{Bookings: []dto.BookingResponse{}, Total: 0}, nil)

		rec := httptest.NewRecorder()
		h.ListBookings(rec, newRequest(t, http.MethodGet, "/?status=in_progress&location=Westlands&from=2026-10-01&to=2026-10-31", nil, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
