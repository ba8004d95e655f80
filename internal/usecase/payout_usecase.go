package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"longa/internal/converter"
	"longa/internal/delivery/dto"
	"longa/internal/delivery/http/middleware"
	"longa/internal/domain/entity"
	"longa/internal/domain/repository"
	"longa/internal/metrics"
	"longa/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrPayoutNotPending    = errors.New("payout is no longer pending")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidDateRange    = errors.New("from date must not be after to date")
	ErrMarkRequiresPending = errors.New("only pending payouts can be marked processed")
)

type PayoutUsecase interface {
	CreateManualPayout(ctx context.Context, req *dto.CreateManualPayoutRequest) (*dto.PayoutResponse, error)
	ListPayouts(ctx context.Context, req *dto.ListPayoutsRequest) (*dto.PayoutListResponse, error)
	GetPayout(ctx context.Context, payoutID uuid.UUID) (*dto.PayoutResponse, error)
	MarkProcessed(ctx context.Context, payoutID uuid.UUID, req *dto.ProcessPayoutRequest) (*dto.PayoutResponse, error)
	MarkFailed(ctx context.Context, payoutID uuid.UUID, req *dto.FailPayoutRequest) (*dto.PayoutResponse, error)
	Export(ctx context.Context, req *dto.ExportPayoutsRequest) (*dto.PayoutExport, error)
}

type payoutUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	payoutRepo          repository.PayoutRepository
	providerProfileRepo repository.ProviderProfileRepository
	auditService        service.AuditService
	exporter            *service.PayoutExporter
	loc                 *time.Location
}

func NewPayoutUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	payoutRepo repository.PayoutRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	auditService service.AuditService,
	exporter *service.PayoutExporter,
	loc *time.Location,
) PayoutUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &payoutUsecase{
		db:                  db,
		log:                 log,
		payoutRepo:          payoutRepo,
		providerProfileRepo: providerProfileRepo,
		auditService:        auditService,
		exporter:            exporter,
		loc:                 loc,
	}
}

// CreateManualPayout records an operator-entered payout with no booking
// behind it. Linking a provider fills in the payout account when the
// request leaves it empty.
func (u *payoutUsecase) CreateManualPayout(ctx context.Context, req *dto.CreateManualPayoutRequest) (*dto.PayoutResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	scheduledDate := dateOnly(timeNow(), u.loc)
	if req.ScheduledDate != "" {
		parsed, err := time.Parse(dateLayout, req.ScheduledDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		scheduledDate = parsed
	}

	payout := &entity.Payout{
		PayeeName:     strings.TrimSpace(req.PayeeName),
		PayeeAccount:  strings.TrimSpace(req.PayeeAccount),
		Amount:        req.Amount.Round(2),
		PayoutType:    entity.PayoutTypeManual,
		Status:        entity.PayoutStatusPending,
		ScheduledDate: scheduledDate,
		Notes:         strings.TrimSpace(req.Notes),
	}

	if req.ProviderID != "" {
		providerID, err := uuid.Parse(req.ProviderID)
		if err != nil {
			return nil, ErrInvalidProviderID
		}
		profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
		if err != nil {
			u.log.Warnf("Failed to find provider profile %s: %+v", providerID, err)
			return nil, err
		}
		if profile == nil {
			return nil, ErrProviderProfileNotFound
		}
		payout.ProviderID = &providerID
		if payout.PayeeAccount == "" {
			payout.PayeeAccount = profile.PayoutNumber
		}
	}

	if err := u.payoutRepo.Create(ctx, u.db, payout); err != nil {
		u.log.Warnf("Failed to create manual payout: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, u.db, &adminID, entity.AuditActionPayoutManualCreate, "payout", payout.ID.String(), map[string]interface{}{
		"payee_name":     payout.PayeeName,
		"amount":         payout.Amount,
		"scheduled_date": payout.ScheduledDate.Format(dateLayout),
	})
	metrics.RecordPayoutCreated(string(entity.PayoutTypeManual))

	u.log.Infof("Manual payout created: id=%s, amount=%s", payout.ID, payout.Amount.StringFixed(2))
	return converter.PayoutToResponse(payout), nil
}

func (u *payoutUsecase) ListPayouts(ctx context.Context, req *dto.ListPayoutsRequest) (*dto.PayoutListResponse, error) {
	filter := &entity.PayoutFilter{
		Status:     entity.PayoutStatus(req.Status),
		PayoutType: entity.PayoutType(req.PayoutType),
	}

	if req.ProviderID != "" {
		providerID, err := uuid.Parse(req.ProviderID)
		if err != nil {
			return nil, ErrInvalidProviderID
		}
		filter.ProviderID = &providerID
	}

	var err error
	if filter.From, err = parseOptionalDate(req.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate(req.To); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidDateRange
	}

	payouts, err := u.payoutRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list payouts: %+v", err)
		return nil, err
	}

	return &dto.PayoutListResponse{
		Payouts: converter.PayoutsToResponses(payouts),
		Total:   len(payouts),
	}, nil
}

func (u *payoutUsecase) GetPayout(ctx context.Context, payoutID uuid.UUID) (*dto.PayoutResponse, error) {
	payout, err := u.findPayout(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	return converter.PayoutToResponse(payout), nil
}

func (u *payoutUsecase) MarkProcessed(ctx context.Context, payoutID uuid.UUID, req *dto.ProcessPayoutRequest) (*dto.PayoutResponse, error) {
	var externalReference *string
	if ref := strings.TrimSpace(req.ExternalReference); ref != "" {
		externalReference = &ref
	}
	return u.settle(ctx, payoutID, entity.PayoutStatusProcessed, entity.AuditActionPayoutProcess, externalReference, strings.TrimSpace(req.Notes))
}

func (u *payoutUsecase) MarkFailed(ctx context.Context, payoutID uuid.UUID, req *dto.FailPayoutRequest) (*dto.PayoutResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return u.settle(ctx, payoutID, entity.PayoutStatusFailed, entity.AuditActionPayoutFail, nil, reason)
}

func (u *payoutUsecase) settle(ctx context.Context, payoutID uuid.UUID, to entity.PayoutStatus, auditAction string, externalReference *string, notes string) (*dto.PayoutResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	payout, err := u.findPayout(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != entity.PayoutStatusPending {
		return nil, ErrPayoutNotPending
	}

	now := timeNow().UTC()
	var processedAt *time.Time
	if to == entity.PayoutStatusProcessed {
		processedAt = &now
	}

	affected, err := u.payoutRepo.UpdateStatus(ctx, u.db, []uuid.UUID{payout.ID}, entity.PayoutStatusPending, to, processedAt, externalReference, notes)
	if err != nil {
		u.log.Warnf("Failed to update payout %s to %s: %+v", payout.ID, to, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPayoutNotPending
	}

	oldStatus := payout.Status
	payout.Status = to
	payout.ProcessedAt = processedAt
	if externalReference != nil {
		payout.ExternalReference = externalReference
	}
	if notes != "" {
		payout.Notes = notes
	}
	payout.UpdatedAt = now

	u.auditService.Log(ctx, u.db, service.AuditEntry{
		UserID:     &adminID,
		Action:     auditAction,
		EntityName: "payout",
		EntityID:   payout.ID.String(),
		OldValue:   map[string]interface{}{"status": oldStatus},
		NewValue:   map[string]interface{}{"status": to, "external_reference": externalReference},
		Reason:     notes,
	})

	u.log.Infof("Payout %s marked %s", payout.ID, to)
	return converter.PayoutToResponse(payout), nil
}

// Export renders the payouts scheduled in [from, to] as CSV. With
// MarkProcessed the exported rows are flipped to processed first and the
// file is only returned once that update has committed.
func (u *payoutUsecase) Export(ctx context.Context, req *dto.ExportPayoutsRequest) (*dto.PayoutExport, error) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	status := entity.PayoutStatus(req.Status)
	if status == "" {
		status = entity.PayoutStatusPending
	}
	if req.MarkProcessed && status != entity.PayoutStatusPending {
		return nil, ErrMarkRequiresPending
	}

	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	rows, err := u.payoutRepo.FindExportRows(ctx, u.db, &entity.PayoutFilter{
		Status: status,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		u.log.Warnf("Failed to load payouts for export: %+v", err)
		return nil, err
	}

	var buf bytes.Buffer
	if err := u.exporter.Write(&buf, rows); err != nil {
		u.log.Warnf("Failed to render payout export: %+v", err)
		return nil, err
	}

	now := timeNow()
	var marked int64
	if req.MarkProcessed && len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			ids[i] = row.PayoutID
		}

		processedAt := now.UTC()
		marked, err = u.payoutRepo.UpdateStatus(ctx, u.db, ids, entity.PayoutStatusPending, entity.PayoutStatusProcessed, &processedAt, nil, "")
		if err != nil {
			u.log.Warnf("Failed to mark exported payouts processed: %+v", err)
			return nil, err
		}
		if marked != int64(len(ids)) {
			u.log.Warnf("Marked %d of %d exported payouts; the rest changed status during export", marked, len(ids))
		}
	}

	u.auditService.Log(ctx, u.db, service.AuditEntry{
		UserID:     &adminID,
		Action:     entity.AuditActionPayoutExport,
		EntityName: "payout",
		EntityID:   req.From + ".." + req.To,
		Extra: entity.JSON{
			"status":         string(status),
			"rows":           len(rows),
			"mark_processed": req.MarkProcessed,
			"marked":         marked,
		},
	})
	metrics.RecordPayoutsExported(len(rows), req.MarkProcessed)

	u.log.Infof("Payout export: from=%s, to=%s, status=%s, rows=%d, marked=%d", req.From, req.To, status, len(rows), marked)
	return &dto.PayoutExport{
		Filename: u.exporter.Filename(now),
		Content:  buf.Bytes(),
		Rows:     len(rows),
		Marked:   marked,
	}, nil
}

func (u *payoutUsecase) findPayout(ctx context.Context, payoutID uuid.UUID) (*entity.Payout, error) {
	payout, err := u.payoutRepo.FindByID(ctx, u.db, payoutID)
	if err != nil {
		u.log.Warnf("Failed to find payout %s: %+v", payoutID, err)
		return nil, err
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}
