package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"longa/internal/delivery/dto"
	"longa/internal/usecase"
	"longa/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAssignmentHandler(t *testing.T) (*AssignmentHandler, *mockAssignmentUsecase) {
	uc := new(mockAssignmentUsecase)
	t.Cleanup(func() { uc.AssertExpectations(t) })
	return NewAssignmentHandler(uc, validator.NewValidator()), uc
}

func TestReassignHandler(t *testing.T) {
	bookingID := uuid.New()
	vars := map[string]string{"id": bookingID.String()}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"reassigned", nil, http.StatusOK},
		{"reason missing", usecase.ErrReasonRequired, http.StatusBadRequest},
		{"same provider", usecase.ErrSameProvider, http.StatusConflict},
		{"not eligible", usecase.ErrProviderNotEligible, http.StatusUnprocessableEntity},
		{"closed booking", usecase.ErrInvalidTransition, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, uc := newAssignmentHandler(t)
			req := &dto.ReassignRequest{ProviderID: uuid.NewString(), Reason: "client request"}
			if tt.err != nil {
				uc.On("Reassign", mock.Anything, bookingID, req).Return(nil, tt.err)
			} else {
				uc.On("Reassign", mock.Anything, bookingID, req).Return(&dto.BookingResponse{ID: bookingID, Status: "accepted"}, nil)
			}

			rec := httptest.NewRecorder()
			h.Reassign(rec, newRequest(t, http.MethodPost, "/", req, vars))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListCandidatesHandler(t *testing.T) {
	bookingID := uuid.New()
	vars := map[string]string{"id": bookingID.String()}

	t.Run("bad availability", func(t *testing.T) {
		h, _ := newAssignmentHandler(t)
		rec := httptest.NewRecorder()
		h.ListCandidates(rec, newRequest(t, http.MethodGet, "/?availability=sometimes", nil, vars))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("booking missing", func(t *testing.T) {
		h, uc := newAssignmentHandler(t)
		uc.On("ListCandidates", mock.Anything, bookingID, &dto.CandidateFilterRequest{Location: "Karen"}).
			Return(nil, usecase.ErrBookingNotFound)

		rec := httptest.NewRecorder()
		h.ListCandidates(rec, newRequest(t, http.MethodGet, "/?location=Karen", nil, vars))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
