package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"longa/internal/delivery/dto"
	"longa/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingUsecase struct{ mock.Mock }

func (m *mockBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingListResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetProviderBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingListResponse), args.Error(1)
}

func (m *mockBookingUsecase) ListBookings(ctx context.Context, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingListResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID))
}

func (m *mockBookingUsecase) Accept(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID))
}

func (m *mockBookingUsecase) Begin(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID))
}

func (m *mockBookingUsecase) Complete(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID))
}

func (m *mockBookingUsecase) Rollback(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID, reason))
}

func (m *mockBookingUsecase) CancelWithRefund(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID, reason))
}

func (m *mockBookingUsecase) MarkClientNoShow(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID, reason))
}

func (m *mockBookingUsecase) MarkProviderNoShow(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return m.booking(m.Called(ctx, bookingID, reason))
}

func (m *mockBookingUsecase) booking(args mock.Arguments) (*dto.BookingResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

type mockAssignmentUsecase struct{ mock.Mock }

func (m *mockAssignmentUsecase) ListCandidates(ctx context.Context, bookingID uuid.UUID, req *dto.CandidateFilterRequest) (*dto.CandidateListResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CandidateListResponse), args.Error(1)
}

func (m *mockAssignmentUsecase) Reassign(ctx context.Context, bookingID uuid.UUID, req *dto.ReassignRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockAssignmentUsecase) GetAssignmentHistory(ctx context.Context, bookingID uuid.UUID) (*dto.AssignmentHistoryResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AssignmentHistoryResponse), args.Error(1)
}

type mockPayoutUsecase struct{ mock.Mock }

func (m *mockPayoutUsecase) CreateManualPayout(ctx context.Context, req *dto.CreateManualPayoutRequest) (*dto.PayoutResponse, error) {
	return m.payout(m.Called(ctx, req))
}

func (m *mockPayoutUsecase) ListPayouts(ctx context.Context, req *dto.ListPayoutsRequest) (*dto.PayoutListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayoutListResponse), args.Error(1)
}

func (m *mockPayoutUsecase) GetPayout(ctx context.Context, payoutID uuid.UUID) (*dto.PayoutResponse, error) {
	return m.payout(m.Called(ctx, payoutID))
}

func (m *mockPayoutUsecase) MarkProcessed(ctx context.Context, payoutID uuid.UUID, req *dto.ProcessPayoutRequest) (*dto.PayoutResponse, error) {
	return m.payout(m.Called(ctx, payoutID, req))
}

func (m *mockPayoutUsecase) MarkFailed(ctx context.Context, payoutID uuid.UUID, req *dto.FailPayoutRequest) (*dto.PayoutResponse, error) {
	return m.payout(m.Called(ctx, payoutID, req))
}

func (m *mockPayoutUsecase) Export(ctx context.Context, req *dto.ExportPayoutsRequest) (*dto.PayoutExport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayoutExport), args.Error(1)
}

func (m *mockPayoutUsecase) payout(args mock.Arguments) (*dto.PayoutResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayoutResponse), args.Error(1)
}

type mockAuthUsecase struct{ mock.Mock }

func (m *mockAuthUsecase) RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error) {
	return m.user(m.Called(ctx, req))
}

func (m *mockAuthUsecase) RegisterProvider(ctx context.Context, req *dto.RegisterProviderRequest) (*dto.UserResponse, error) {
	return m.user(m.Called(ctx, req))
}

func (m *mockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.tokens(m.Called(ctx, req))
}

func (m *mockAuthUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.tokens(m.Called(ctx, req))
}

func (m *mockAuthUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	return m.user(m.Called(ctx))
}

func (m *mockAuthUsecase) user(args mock.Arguments) (*dto.UserResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *mockAuthUsecase) tokens(args mock.Arguments) (*dto.TokenResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

// newRequest builds a request with an optional JSON body and mux path vars.
func newRequest(t *testing.T, method, target string, body interface{}, vars map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
