package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidTransition       = errors.New("booking cannot move to the requested status")
	ErrReasonRequired          = errors.New("reason is required")
	ErrNotAssignedProvider     = errors.New("booking is not assigned to this provider")
	ErrProviderProfileNotFound = errors.New("provider profile not found")
	ErrScheduleInPast          = errors.New("scheduled date must not be in the past")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
	ErrPackageItemMismatch     = errors.New("package item does not belong to the booked service")
	ErrPayoutAlreadyExists     = errors.New("a pending payout already exists for this booking")
)

const (
	dateLayout = "2006-01-02"

	acceptedAssignmentReason = "accepted by provider"
	rollbackPayoutNote       = "reversed: booking rolled back"

	pendingJobPayoutIndex = "uq_payouts_pending_job_per_booking"
	eventPublishTimeout   = 5 * time.Second
)

var timeNow = time.Now

// Lifecycle action names, used for metrics and notification events
const (
	ActionCreate           = "create"
	ActionAccept           = "accept"
	ActionBegin            = "begin"
	ActionComplete         = "complete"
	ActionRollback         = "rollback"
	ActionCancelWithRefund = "cancel_with_refund"
	ActionClientNoShow     = "client_no_show"
	ActionProviderNoShow   = "provider_no_show"
	ActionReassign         = "reassign"
)

type BookingLifecycleUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetProviderBookings(ctx context.Context) (*dto.BookingListResponse, error)
	ListBookings(ctx context.Context, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)

	Accept(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	Begin(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	Complete(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)

	Rollback(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	CancelWithRefund(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	MarkClientNoShow(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	MarkProviderNoShow(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
}

type bookingLifecycleUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	bookingRepo         repository.BookingRepository
	assignmentRepo      repository.BookingAssignmentRepository
	payoutRepo          repository.PayoutRepository
	serviceRepo         repository.ServiceRepository
	providerProfileRepo repository.ProviderProfileRepository
	auditService        service.AuditService
	publisher           service.EventPublisher
	calculator          *service.PayoutCalculator
	loc                 *time.Location
}

func NewBookingLifecycleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	assignmentRepo repository.BookingAssignmentRepository,
	payoutRepo repository.PayoutRepository,
	serviceRepo repository.ServiceRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
	calculator *service.PayoutCalculator,
	loc *time.Location,
) BookingLifecycleUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingLifecycleUsecase{
		db:                  db,
		log:                 log,
		bookingRepo:         bookingRepo,
		assignmentRepo:      assignmentRepo,
		payoutRepo:          payoutRepo,
		serviceRepo:         serviceRepo,
		providerProfileRepo: providerProfileRepo,
		auditService:        auditService,
		publisher:           publisher,
		calculator:          calculator,
		loc:                 loc,
	}
}

func (u *bookingLifecycleUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	clientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	scheduledDate, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if scheduledDate.Before(dateOnly(timeNow(), u.loc)) {
		return nil, ErrScheduleInPast
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, ErrServiceNotFound
	}

	svc, err := u.serviceRepo.FindByID(ctx, u.db, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if !svc.IsActive() {
		return nil, ErrServiceInactive
	}

	var packageItemID *uuid.UUID
	if req.PackageItemID != "" {
		itemID, err := uuid.Parse(req.PackageItemID)
		if err != nil {
			return nil, ErrPackageItemNotFound
		}
		item, err := u.serviceRepo.FindPackageItem(ctx, u.db, itemID)
		if err != nil {
			u.log.Warnf("Failed to find package item %s: %+v", itemID, err)
			return nil, err
		}
		if item == nil {
			return nil, ErrPackageItemNotFound
		}
		if item.PackageServiceID != svc.ID {
			return nil, ErrPackageItemMismatch
		}
		packageItemID = &item.ID
	}

	booking := &entity.Booking{
		ServiceID:       svc.ID,
		ClientID:        clientID,
		PackageItemID:   packageItemID,
		ScheduledDate:   scheduledDate,
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: svc.DurationMinutes,
		Location:        strings.TrimSpace(req.Location),
		TotalAmount:     svc.ClientPrice,
		Status:          entity.BookingStatusPending,
		IsEmergency:     req.IsEmergency,
	}
	if instructions := strings.TrimSpace(req.SpecialInstructions); instructions != "" {
		booking.SpecialInstructions = &instructions
	}

	if err := u.bookingRepo.Create(ctx, u.db, booking); err != nil {
		u.log.Warnf("Failed to create booking: %+v", err)
		return nil, err
	}
	booking.Service = *svc

	u.auditService.LogCreate(ctx, u.db, &clientID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), map[string]interface{}{
		"service_id":     svc.ID,
		"scheduled_date": req.ScheduledDate,
		"location":       booking.Location,
		"total_amount":   booking.TotalAmount,
	})
	metrics.RecordBookingTransition(ActionCreate, string(entity.BookingStatusPending))
	publishBookingEvent(u.log, u.publisher, &entity.BookingEvent{
		EventID:    uuid.New(),
		EventType:  entity.EventTypeBookingCreated,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ToStatus:   booking.Status,
		Action:     ActionCreate,
		OccurredAt: timeNow().UTC(),
	})

	u.log.Infof("Booking created: id=%s, service=%s, date=%s", booking.ID, svc.ID, req.ScheduledDate)
	return converter.BookingToResponse(booking), nil
}

func (u *bookingLifecycleUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	clientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	bookings, err := u.bookingRepo.FindByClientID(ctx, u.db, clientID)
	if err != nil {
		u.log.Warnf("Failed to get bookings for client %s: %+v", clientID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetProviderBookings returns the provider's own bookings plus open pending
// ones they could accept.
func (u *bookingLifecycleUsecase) GetProviderBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	providerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	bookings, err := u.bookingRepo.FindForProvider(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to get bookings for provider %s: %+v", providerID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

func (u *bookingLifecycleUsecase) ListBookings(ctx context.Context, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error) {
	filter := &entity.BookingFilter{
		Status:   entity.BookingStatus(req.Status),
		Location: strings.TrimSpace(req.Location),
	}

	if req.ProviderID != "" {
		id, err := uuid.Parse(req.ProviderID)
		if err != nil {
			return nil, ErrInvalidProviderID
		}
		filter.ProviderID = &id
	}
	if req.ClientID != "" {
		id, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		filter.ClientID = &id
	}

	var err error
	if filter.From, err = parseOptionalDate(req.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate(req.To); err != nil {
		return nil, err
	}

	bookings, err := u.bookingRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetBooking returns booking detail with its derived payout split. A
// booking whose split cannot be derived is still returned, without it.
func (u *bookingLifecycleUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	resp := converter.BookingToResponse(booking)

	breakdown, err := u.deriveBreakdown(ctx, u.db, booking)
	if err != nil {
		u.log.Debugf("No payout breakdown for booking %s: %v", bookingID, err)
		return resp, nil
	}
	resp.Payout = converter.PayoutBreakdownToResponse(breakdown)
	return resp, nil
}

func (u *bookingLifecycleUsecase) Accept(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	providerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile %s: %+v", providerID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProviderProfileNotFound
	}

	return u.transition(ctx, transitionRequest{
		bookingID:   bookingID,
		actorID:     providerID,
		action:      ActionAccept,
		auditAction: entity.AuditActionBookingAccept,
		from:        []entity.BookingStatus{entity.BookingStatusPending},
		to:          entity.BookingStatusAccepted,
		assignActor: true,
		afterUpdate: func(ctx context.Context, tx *gorm.DB, booking *entity.Booking, now time.Time) (entity.JSON, error) {
			assignment := &entity.BookingAssignment{
				BookingID:  booking.ID,
				ProviderID: providerID,
				AssignedBy: &providerID,
				Reason:     acceptedAssignmentReason,
				CreatedAt:  now,
			}
			if err := u.assignmentRepo.Create(ctx, tx, assignment); err != nil {
				u.log.Warnf("Failed to record assignment for booking %s: %+v", booking.ID, err)
				return nil, err
			}
			return nil, nil
		},
	})
}

func (u *bookingLifecycleUsecase) Begin(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	providerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return u.transition(ctx, transitionRequest{
		bookingID:       bookingID,
		actorID:         providerID,
		action:          ActionBegin,
		auditAction:     entity.AuditActionBookingBegin,
		from:            []entity.BookingStatus{entity.BookingStatusAccepted},
		to:              entity.BookingStatusInProgress,
		requireAssigned: true,
	})
}

// Complete closes the job and queues the provider's payout in the same
// transaction.
func (u *bookingLifecycleUsecase) Complete(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	providerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return u.transition(ctx, transitionRequest{
		bookingID:       bookingID,
		actorID:         providerID,
		action:          ActionComplete,
		auditAction:     entity.AuditActionBookingComplete,
		from:            []entity.BookingStatus{entity.BookingStatusInProgress},
		to:              entity.BookingStatusCompleted,
		requireAssigned: true,
		afterUpdate: func(ctx context.Context, tx *gorm.DB, booking *entity.Booking, now time.Time) (entity.JSON, error) {
			payout, created, err := u.createJobPayout(ctx, tx, booking, now)
			if err != nil {
				return nil, err
			}
			return entity.JSON{"payout_id": payout.ID.String(), "payout_created": created}, nil
		},
	})
}

// Rollback reopens a completed booking. Its pending job payout is reversed
// in the same transaction; settled payouts are left for finance.
func (u *bookingLifecycleUsecase) Rollback(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return u.adminTransition(ctx, transitionRequest{
		bookingID:   bookingID,
		reason:      reason,
		action:      ActionRollback,
		auditAction: entity.AuditActionBookingRollback,
		from:        []entity.BookingStatus{entity.BookingStatusCompleted},
		to:          entity.BookingStatusInProgress,
		afterUpdate: u.reverseJobPayouts,
	})
}

// CancelWithRefund records the refund request; no money moves here.
func (u *bookingLifecycleUsecase) CancelWithRefund(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return u.adminTransition(ctx, transitionRequest{
		bookingID:   bookingID,
		reason:      reason,
		action:      ActionCancelWithRefund,
		auditAction: entity.AuditActionBookingCancelRefund,
		from: []entity.BookingStatus{
			entity.BookingStatusPending,
			entity.BookingStatusAccepted,
			entity.BookingStatusInProgress,
		},
		to:            entity.BookingStatusCancelled,
		clearProvider: true,
		extra:         entity.JSON{"refund_requested": true},
	})
}

func (u *bookingLifecycleUsecase) MarkClientNoShow(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return u.adminTransition(ctx, transitionRequest{
		bookingID:     bookingID,
		reason:        reason,
		action:        ActionClientNoShow,
		auditAction:   entity.AuditActionBookingClientNoShow,
		from:          []entity.BookingStatus{entity.BookingStatusAccepted, entity.BookingStatusInProgress},
		to:            entity.BookingStatusCancelled,
		clearProvider: true,
		extra:         entity.JSON{"no_show": "client"},
	})
}

func (u *bookingLifecycleUsecase) MarkProviderNoShow(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	return u.adminTransition(ctx, transitionRequest{
		bookingID:     bookingID,
		reason:        reason,
		action:        ActionProviderNoShow,
		auditAction:   entity.AuditActionBookingProviderNoShow,
		from:          []entity.BookingStatus{entity.BookingStatusAccepted, entity.BookingStatusInProgress},
		to:            entity.BookingStatusCancelled,
		clearProvider: true,
		extra:         entity.JSON{"no_show": "provider"},
	})
}

// transitionRequest describes one lifecycle step. afterUpdate runs inside
// the transaction once the conditional status update has succeeded; the
// JSON it returns is merged into the audit entry.
type transitionRequest struct {
	bookingID       uuid.UUID
	actorID         uuid.UUID
	reason          string
	action          string
	auditAction     string
	from            []entity.BookingStatus
	to              entity.BookingStatus
	requireAssigned bool
	assignActor     bool
	clearProvider   bool
	extra           entity.JSON
	afterUpdate     func(ctx context.Context, tx *gorm.DB, booking *entity.Booking, now time.Time) (entity.JSON, error)
}

func (u *bookingLifecycleUsecase) adminTransition(ctx context.Context, req transitionRequest) (*dto.BookingResponse, error) {
	req.reason = strings.TrimSpace(req.reason)
	if req.reason == "" {
		return nil, ErrReasonRequired
	}

	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	req.actorID = adminID

	return u.transition(ctx, req)
}

func (u *bookingLifecycleUsecase) transition(ctx context.Context, req transitionRequest) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, req.bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", req.bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	fromStatus := booking.Status
	if !statusIn(fromStatus, req.from) || !entity.CanTransition(fromStatus, req.to) {
		return nil, ErrInvalidTransition
	}
	if req.requireAssigned && !booking.IsAssignedTo(req.actorID) {
		return nil, ErrNotAssignedProvider
	}

	previousProvider := booking.ProviderID
	now := timeNow().UTC()

	t := &entity.BookingTransition{
		BookingID:     booking.ID,
		From:          []entity.BookingStatus{fromStatus},
		To:            req.to,
		ClearProvider: req.clearProvider,
		UpdatedAt:     now,
	}
	if req.assignActor {
		actorID := req.actorID
		t.ProviderID = &actorID
		t.AssignedAt = &now
	}
	if req.requireAssigned {
		actorID := req.actorID
		t.RequireProviderID = &actorID
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.bookingRepo.ApplyTransition(ctx, tx, t)
	if err != nil {
		u.log.Warnf("Failed to %s booking %s: %+v", req.action, booking.ID, err)
		return nil, err
	}
	if affected == 0 {
		// Another writer moved the booking after we read it
		return nil, ErrInvalidTransition
	}

	booking.Status = req.to
	booking.UpdatedAt = now
	switch {
	case req.clearProvider:
		booking.ProviderID = nil
		booking.AssignedAt = nil
	case t.ProviderID != nil:
		booking.ProviderID = t.ProviderID
		booking.AssignedAt = t.AssignedAt
	}

	var details entity.JSON
	if req.afterUpdate != nil {
		if details, err = req.afterUpdate(ctx, tx, booking, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	extra := entity.JSON{}
	for k, v := range req.extra {
		extra[k] = v
	}
	for k, v := range details {
		extra[k] = v
	}
	if previousProvider != nil {
		extra["previous_provider_id"] = previousProvider.String()
	}

	actorID := req.actorID
	u.auditService.Log(ctx, u.db, service.AuditEntry{
		UserID:     &actorID,
		Action:     req.auditAction,
		EntityName: "booking",
		EntityID:   booking.ID.String(),
		OldValue:   map[string]interface{}{"status": fromStatus, "provider_id": previousProvider},
		NewValue:   map[string]interface{}{"status": booking.Status, "provider_id": booking.ProviderID},
		Reason:     req.reason,
		Extra:      extra,
	})
	metrics.RecordBookingTransition(req.action, string(req.to))
	publishBookingEvent(u.log, u.publisher, &entity.BookingEvent{
		EventID:    uuid.New(),
		EventType:  entity.EventTypeBookingStatusChanged,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: firstNonNil(booking.ProviderID, previousProvider),
		FromStatus: fromStatus,
		ToStatus:   booking.Status,
		Action:     req.action,
		Reason:     req.reason,
		OccurredAt: now,
	})

	u.log.Infof("Booking %s: id=%s, %s -> %s", req.action, booking.ID, fromStatus, booking.Status)
	return converter.BookingToResponse(booking), nil
}

// createJobPayout inserts the pending job payout for a completed booking,
// or returns the job payout that is already pending or settled. A settled
// payout survives rollback, so completing again must not pay the job twice.
func (u *bookingLifecycleUsecase) createJobPayout(ctx context.Context, tx *gorm.DB, booking *entity.Booking, now time.Time) (*entity.Payout, bool, error) {
	existing, err := u.payoutRepo.FindByBookingID(ctx, tx, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to find payouts for booking %s: %+v", booking.ID, err)
		return nil, false, err
	}
	for i := range existing {
		if existing[i].PayoutType != entity.PayoutTypeJob {
			continue
		}
		if existing[i].Status == entity.PayoutStatusPending || existing[i].Status.IsSettled() {
			return &existing[i], false, nil
		}
	}

	breakdown, err := u.deriveBreakdown(ctx, tx, booking)
	if err != nil {
		u.log.Warnf("Failed to derive payout for booking %s: %+v", booking.ID, err)
		return nil, false, err
	}

	payeeName := booking.ProviderID.String()
	payeeAccount := ""
	profile, err := u.providerProfileRepo.FindByUserID(ctx, tx, *booking.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider profile %s: %+v", booking.ProviderID, err)
		return nil, false, err
	}
	if profile != nil {
		if profile.User.FullName != "" {
			payeeName = profile.User.FullName
		}
		payeeAccount = profile.PayoutNumber
	}

	bookingID := booking.ID
	payout := &entity.Payout{
		ProviderID:    booking.ProviderID,
		PayeeName:     payeeName,
		PayeeAccount:  payeeAccount,
		BookingID:     &bookingID,
		Amount:        breakdown.ProviderEarnings,
		PayoutType:    entity.PayoutTypeJob,
		Status:        entity.PayoutStatusPending,
		ScheduledDate: dateOnly(now, u.loc),
		Notes: fmt.Sprintf("%s: total %s, commission %s",
			breakdown.Model, breakdown.TotalAmount.StringFixed(2), breakdown.Commission.StringFixed(2)),
	}

	if err := u.payoutRepo.Create(ctx, tx, payout); err != nil {
		if isDuplicateKeyError(err, pendingJobPayoutIndex) {
			return nil, false, ErrPayoutAlreadyExists
		}
		u.log.Warnf("Failed to create payout for booking %s: %+v", booking.ID, err)
		return nil, false, err
	}

	metrics.RecordPayoutCreated(string(entity.PayoutTypeJob))
	return payout, true, nil
}

func (u *bookingLifecycleUsecase) reverseJobPayouts(ctx context.Context, tx *gorm.DB, booking *entity.Booking, now time.Time) (entity.JSON, error) {
	payouts, err := u.payoutRepo.FindByBookingID(ctx, tx, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to find payouts for booking %s: %+v", booking.ID, err)
		return nil, err
	}

	var reversed []uuid.UUID
	reversedIDs := []string{}
	settledIDs := []string{}
	for _, p := range payouts {
		if p.PayoutType != entity.PayoutTypeJob {
			continue
		}
		switch {
		case p.Status == entity.PayoutStatusPending:
			reversed = append(reversed, p.ID)
			reversedIDs = append(reversedIDs, p.ID.String())
		case p.Status.IsSettled():
			settledIDs = append(settledIDs, p.ID.String())
		}
	}

	if len(reversed) > 0 {
		if _, err := u.payoutRepo.UpdateStatus(ctx, tx, reversed, entity.PayoutStatusPending, entity.PayoutStatusFailed, nil, nil, rollbackPayoutNote); err != nil {
			u.log.Warnf("Failed to reverse payouts for booking %s: %+v", booking.ID, err)
			return nil, err
		}
	}
	if len(settledIDs) > 0 {
		u.log.Warnf("Booking %s rolled back with settled payouts %v; reconcile manually", booking.ID, settledIDs)
	}

	return entity.JSON{"reversed_payouts": reversedIDs, "settled_payouts": settledIDs}, nil
}

func (u *bookingLifecycleUsecase) deriveBreakdown(ctx context.Context, db *gorm.DB, booking *entity.Booking) (*service.PayoutBreakdown, error) {
	svc := &booking.Service
	if svc.ID == uuid.Nil {
		found, err := u.serviceRepo.FindByID(ctx, db, booking.ServiceID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrServiceNotFound
		}
		svc = found
	}

	var item *entity.ServicePackageItem
	if booking.PackageItemID != nil {
		found, err := u.serviceRepo.FindPackageItem(ctx, db, *booking.PackageItemID)
		if err != nil {
			return nil, err
		}
		item = found
	}

	return u.calculator.Derive(booking, svc, item)
}

func publishBookingEvent(log *logrus.Logger, publisher service.EventPublisher, event *entity.BookingEvent) {
	// Detached from the request so a client disconnect does not drop the event
	ctx, cancel := context.WithTimeout(context.Background(), eventPublishTimeout)
	defer cancel()

	if err := publisher.PublishBookingEvent(ctx, event); err != nil {
		log.Warnf("Failed to publish %s event for booking %s (non-fatal): %+v", event.EventType, event.BookingID, err)
		metrics.RecordSecondaryWriteFailure("event")
	}
}

func statusIn(status entity.BookingStatus, allowed []entity.BookingStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func firstNonNil(ids ...*uuid.UUID) *uuid.UUID {
	for _, id := range ids {
		if id != nil {
			return id
		}
	}
	return nil
}

// dateOnly returns the calendar date of t in loc as a UTC midnight.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &t, nil
}
