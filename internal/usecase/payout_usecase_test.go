package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"longa/internal/delivery/dto"
	"longa/internal/domain/entity"
	"longa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPayoutUsecase(t *testing.T) (PayoutUsecase, *mockPayoutRepo, *mockProviderProfileRepo) {
	db, _ := setupMockDB(t)
	payoutRepo := new(mockPayoutRepo)
	profileRepo := new(mockProviderProfileRepo)

	uc := NewPayoutUsecase(db, quietLogger(), payoutRepo, profileRepo,
		new(mockAuditService).acceptAudits(), service.NewPayoutExporter(time.UTC), time.UTC)

	t.Cleanup(func() {
		payoutRepo.AssertExpectations(t)
		profileRepo.AssertExpectations(t)
	})
	return uc, payoutRepo, profileRepo
}

func pendingPayout() *entity.Payout {
	return &entity.Payout{
		ID:            uuid.New(),
		PayeeName:     "Mwila Banda",
		Amount:        decimal.NewFromInt(850),
		PayoutType:    entity.PayoutTypeJob,
		Status:        entity.PayoutStatusPending,
		ScheduledDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateManualPayout(t *testing.T) {
	freezeTime(t, time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC))
	admin := ctxWithUser(uuid.New(), entity.RoleIDAdmin)

	t.Run("non-positive amount", func(t *testing.T) {
		uc, _, _ := newPayoutUsecase(t)

		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			_, err := uc.CreateManualPayout(admin, &dto.CreateManualPayoutRequest{PayeeName: "Bonus", Amount: amount})
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
	})

	t.Run("without provider stores no provider id", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payoutRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(p *entity.Payout) bool {
			return p.ProviderID == nil &&
				p.BookingID == nil &&
				p.PayoutType == entity.PayoutTypeManual &&
				p.Status == entity.PayoutStatusPending &&
				p.Amount.Equal(decimal.RequireFromString("120.50")) &&
				p.ScheduledDate.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
		})).Return(nil)

		resp, err := uc.CreateManualPayout(admin, &dto.CreateManualPayoutRequest{
			PayeeName: " Transport refund ",
			Amount:    decimal.RequireFromString("120.499"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Transport refund", resp.PayeeName)
		assert.Equal(t, "manual", resp.PayoutType)
	})

	t.Run("provider fills payout account", func(t *testing.T) {
		uc, payoutRepo, profileRepo := newPayoutUsecase(t)
		providerID := uuid.New()
		profileRepo.On("FindByUserID", mock.Anything, mock.Anything, providerID).
			Return(&entity.ProviderProfile{UserID: providerID, PayoutNumber: "0966123456"}, nil)
		payoutRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(p *entity.Payout) bool {
			return *p.ProviderID == providerID && p.PayeeAccount == "0966123456"
		})).Return(nil)

		_, err := uc.CreateManualPayout(admin, &dto.CreateManualPayoutRequest{
			ProviderID: providerID.String(),
			PayeeName:  "Bonus",
			Amount:     decimal.NewFromInt(50),
		})

		require.NoError(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		uc, _, profileRepo := newPayoutUsecase(t)
		providerID := uuid.New()
		profileRepo.On("FindByUserID", mock.Anything, mock.Anything, providerID).Return(nil, nil)

		_, err := uc.CreateManualPayout(admin, &dto.CreateManualPayoutRequest{
			ProviderID: providerID.String(),
			PayeeName:  "Bonus",
			Amount:     decimal.NewFromInt(50),
		})

		assert.ErrorIs(t, err, ErrProviderProfileNotFound)
	})
}

func TestMarkProcessed(t *testing.T) {
	admin := ctxWithUser(uuid.New(), entity.RoleIDAdmin)

	t.Run("records reference", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payout := pendingPayout()
		payoutRepo.On("FindByID", mock.Anything, mock.Anything, payout.ID).Return(payout, nil)
		ref := "BANK-778"
		payoutRepo.On("UpdateStatus", mock.Anything, mock.Anything, []uuid.UUID{payout.ID},
			entity.PayoutStatusPending, entity.PayoutStatusProcessed, mock.AnythingOfType("*time.Time"), &ref, "").
			Return(int64(1), nil)

		resp, err := uc.MarkProcessed(admin, payout.ID, &dto.ProcessPayoutRequest{ExternalReference: " BANK-778 "})

		require.NoError(t, err)
		assert.Equal(t, "processed", resp.Status)
		assert.NotNil(t, resp.ProcessedAt)
		assert.Equal(t, "BANK-778", *resp.ExternalReference)
	})

	t.Run("already settled", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payout := pendingPayout()
		payout.Status = entity.PayoutStatusProcessed
		payoutRepo.On("FindByID", mock.Anything, mock.Anything, payout.ID).Return(payout, nil)

		_, err := uc.MarkProcessed(admin, payout.ID, &dto.ProcessPayoutRequest{})

		assert.ErrorIs(t, err, ErrPayoutNotPending)
	})

	t.Run("lost race", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payout := pendingPayout()
		payoutRepo.On("FindByID", mock.Anything, mock.Anything, payout.ID).Return(payout, nil)
		payoutRepo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

		_, err := uc.MarkProcessed(admin, payout.ID, &dto.ProcessPayoutRequest{})

		assert.ErrorIs(t, err, ErrPayoutNotPending)
	})

	t.Run("not found", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		id := uuid.New()
		payoutRepo.On("FindByID", mock.Anything, mock.Anything, id).Return(nil, nil)

		_, err := uc.MarkProcessed(admin, id, &dto.ProcessPayoutRequest{})

		assert.ErrorIs(t, err, ErrPayoutNotFound)
	})
}

func TestMarkFailed_RequiresReason(t *testing.T) {
	uc, payoutRepo, _ := newPayoutUsecase(t)

	_, err := uc.MarkFailed(ctxWithUser(uuid.New(), entity.RoleIDAdmin), uuid.New(), &dto.FailPayoutRequest{Reason: " "})

	assert.ErrorIs(t, err, ErrReasonRequired)
	payoutRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPayouts_RejectsInvertedRange(t *testing.T) {
	uc, _, _ := newPayoutUsecase(t)

	_, err := uc.ListPayouts(context.Background(), &dto.ListPayoutsRequest{From: "2026-10-20", To: "2026-10-01"})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func exportRows() []entity.PayoutExportRow {
	bookingID := uuid.New()
	jobDate := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	return []entity.PayoutExportRow{
		{
			PayoutID:      uuid.New(),
			PayeeName:     "Mwila Banda",
			PayeeAccount:  "0977000111",
			ServiceType:   "one_off",
			BookingID:     &bookingID,
			ServiceName:   "Deep Cleaning",
			JobDate:       &jobDate,
			ScheduledDate: jobDate,
			Amount:        decimal.NewFromInt(850),
			PayoutType:    entity.PayoutTypeJob,
		},
		{
			PayoutID:      uuid.New(),
			PayeeName:     "Transport refund",
			ScheduledDate: jobDate,
			Amount:        decimal.RequireFromString("120.5"),
			PayoutType:    entity.PayoutTypeManual,
		},
	}
}

func TestExport(t *testing.T) {
	freezeTime(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	admin := ctxWithUser(uuid.New(), entity.RoleIDAdmin)

	t.Run("inverted range", func(t *testing.T) {
		uc, _, _ := newPayoutUsecase(t)

		_, err := uc.Export(admin, &dto.ExportPayoutsRequest{From: "2026-10-19", To: "2026-10-01"})

		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("mark requires pending filter", func(t *testing.T) {
		uc, _, _ := newPayoutUsecase(t)

		_, err := uc.Export(admin, &dto.ExportPayoutsRequest{
			From: "2026-10-01", To: "2026-10-19", Status: "processed", MarkProcessed: true,
		})

		assert.ErrorIs(t, err, ErrMarkRequiresPending)
	})

	t.Run("renders without marking", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payoutRepo.On("FindExportRows", mock.Anything, mock.Anything, mock.MatchedBy(func(f *entity.PayoutFilter) bool {
			return f.Status == entity.PayoutStatusPending &&
				f.From.Format(dateLayout) == "2026-10-01" &&
				f.To.Format(dateLayout) == "2026-10-19"
		})).Return(exportRows(), nil)

		export, err := uc.Export(admin, &dto.ExportPayoutsRequest{From: "2026-10-01", To: "2026-10-19"})

		require.NoError(t, err)
		assert.Equal(t, "longa-payouts-20261019.csv", export.Filename)
		assert.Equal(t, 2, export.Rows)
		assert.Zero(t, export.Marked)

		lines := strings.Split(strings.TrimSpace(string(export.Content)), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "Provider Name,"))
		assert.Contains(t, lines[1], `"Mwila Banda","0977000111","One-off"`)
		assert.Contains(t, lines[2], `,120.50,"Manual payout"`)
		payoutRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("marks exported rows processed", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		rows := exportRows()
		payoutRepo.On("FindExportRows", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)
		payoutRepo.On("UpdateStatus", mock.Anything, mock.Anything, []uuid.UUID{rows[0].PayoutID, rows[1].PayoutID},
			entity.PayoutStatusPending, entity.PayoutStatusProcessed, mock.AnythingOfType("*time.Time"), (*string)(nil), "").
			Return(int64(2), nil)

		export, err := uc.Export(admin, &dto.ExportPayoutsRequest{From: "2026-10-01", To: "2026-10-19", MarkProcessed: true})

		require.NoError(t, err)
		assert.Equal(t, int64(2), export.Marked)
	})

	t.Run("mark failure withholds the file", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payoutRepo.On("FindExportRows", mock.Anything, mock.Anything, mock.Anything).Return(exportRows(), nil)
		payoutRepo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

		export, err := uc.Export(admin, &dto.ExportPayoutsRequest{From: "2026-10-01", To: "2026-10-19", MarkProcessed: true})

		assert.Error(t, err)
		assert.Nil(t, export)
	})

	t.Run("empty range marks nothing", func(t *testing.T) {
		uc, payoutRepo, _ := newPayoutUsecase(t)
		payoutRepo.On("FindExportRows", mock.Anything, mock.Anything, mock.Anything).Return([]entity.PayoutExportRow{}, nil)

		export, err := uc.Export(admin, &dto.ExportPayoutsRequest{From: "2026-10-01", To: "2026-10-19", MarkProcessed: true})

		require.NoError(t, err)
		assert.Zero(t, export.Rows)
		assert.Equal(t, "Provider Name,Bank/Mobile Number,Service Type,Job ID,Service Name,Job Date,Payout Amount,Payment Type/Notes\n", string(export.Content))
	})
}
