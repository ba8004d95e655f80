package usecase

import (
	"context"
	"errors"
	"strings"

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
	ErrProviderRequired    = errors.New("provider is required")
	ErrInvalidProviderID   = errors.New("invalid provider id")
	ErrProviderNotEligible = errors.New("provider is not an active provider")
	ErrSameProvider        = errors.New("booking is already assigned to this provider")
)

type ProviderAssignmentUsecase interface {
	ListCandidates(ctx context.Context, bookingID uuid.UUID, req *dto.CandidateFilterRequest) (*dto.CandidateListResponse, error)
	Reassign(ctx context.Context, bookingID uuid.UUID, req *dto.ReassignRequest) (*dto.BookingResponse, error)
	GetAssignmentHistory(ctx context.Context, bookingID uuid.UUID) (*dto.AssignmentHistoryResponse, error)
}

type providerAssignmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	bookingRepo    repository.BookingRepository
	assignmentRepo repository.BookingAssignmentRepository
	providerPool   service.ProviderPool
	resolver       *service.AssignmentResolver
	auditService   service.AuditService
	publisher      service.EventPublisher
}

func NewProviderAssignmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	assignmentRepo repository.BookingAssignmentRepository,
	providerPool service.ProviderPool,
	resolver *service.AssignmentResolver,
	auditService service.AuditService,
	publisher service.EventPublisher,
) ProviderAssignmentUsecase {
	return &providerAssignmentUsecase{
		db:             db,
		log:            log,
		bookingRepo:    bookingRepo,
		assignmentRepo: assignmentRepo,
		providerPool:   providerPool,
		resolver:       resolver,
		auditService:   auditService,
		publisher:      publisher,
	}
}

func (u *providerAssignmentUsecase) ListCandidates(ctx context.Context, bookingID uuid.UUID, req *dto.CandidateFilterRequest) (*dto.CandidateListResponse, error) {
	booking, err := u.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	pool, err := u.providerPool.Candidates(ctx)
	if err != nil {
		u.log.Warnf("Failed to load provider pool: %+v", err)
		return nil, err
	}

	candidates := u.resolver.Resolve(pool, booking.ProviderID, service.CandidateFilter{
		Search:       req.Search,
		Location:     strings.TrimSpace(req.Location),
		Availability: req.Availability,
	})

	return &dto.CandidateListResponse{
		BookingID:  booking.ID,
		Candidates: converter.CandidatesToResponses(candidates),
		Total:      len(candidates),
	}, nil
}

// Reassign hands a live booking to another active provider. The booking
// update and the history row commit together.
func (u *providerAssignmentUsecase) Reassign(ctx context.Context, bookingID uuid.UUID, req *dto.ReassignRequest) (*dto.BookingResponse, error) {
	rawProviderID := strings.TrimSpace(req.ProviderID)
	reason := strings.TrimSpace(req.Reason)
	if rawProviderID == "" {
		return nil, ErrProviderRequired
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}

	providerID, err := uuid.Parse(rawProviderID)
	if err != nil {
		return nil, ErrInvalidProviderID
	}

	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	booking, err := u.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	fromStatus := booking.Status
	toStatus := fromStatus
	switch fromStatus {
	case entity.BookingStatusPending:
		toStatus = entity.BookingStatusAccepted
	case entity.BookingStatusAccepted, entity.BookingStatusInProgress:
	default:
		return nil, ErrInvalidTransition
	}

	if booking.IsAssignedTo(providerID) {
		return nil, ErrSameProvider
	}

	pool, err := u.providerPool.Candidates(ctx)
	if err != nil {
		u.log.Warnf("Failed to load provider pool: %+v", err)
		return nil, err
	}
	if !u.resolver.Contains(pool, providerID) {
		return nil, ErrProviderNotEligible
	}

	previousProvider := booking.ProviderID
	now := timeNow().UTC()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.bookingRepo.ApplyTransition(ctx, tx, &entity.BookingTransition{
		BookingID:  booking.ID,
		From:       []entity.BookingStatus{fromStatus},
		To:         toStatus,
		ProviderID: &providerID,
		AssignedAt: &now,
		UpdatedAt:  now,
	})
	if err != nil {
		u.log.Warnf("Failed to reassign booking %s: %+v", booking.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	assignment := &entity.BookingAssignment{
		BookingID:  booking.ID,
		ProviderID: providerID,
		AssignedBy: &adminID,
		Reason:     reason,
		CreatedAt:  now,
	}
	if err := u.assignmentRepo.Create(ctx, tx, assignment); err != nil {
		u.log.Warnf("Failed to record assignment for booking %s: %+v", booking.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	booking.Status = toStatus
	booking.ProviderID = &providerID
	booking.AssignedAt = &now
	booking.UpdatedAt = now

	extra := entity.JSON{"assignment_id": assignment.ID.String()}
	if previousProvider != nil {
		extra["previous_provider_id"] = previousProvider.String()
	}
	u.auditService.Log(ctx, u.db, service.AuditEntry{
		UserID:     &adminID,
		Action:     entity.AuditActionBookingReassign,
		EntityName: "booking",
		EntityID:   booking.ID.String(),
		OldValue:   map[string]interface{}{"status": fromStatus, "provider_id": previousProvider},
		NewValue:   map[string]interface{}{"status": toStatus, "provider_id": providerID},
		Reason:     reason,
		Extra:      extra,
	})
	metrics.RecordBookingTransition(ActionReassign, string(toStatus))
	publishBookingEvent(u.log, u.publisher, &entity.BookingEvent{
		EventID:    uuid.New(),
		EventType:  entity.EventTypeBookingReassigned,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: &providerID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Action:     ActionReassign,
		Reason:     reason,
		OccurredAt: now,
	})

	u.log.Infof("Booking reassigned: id=%s, provider=%s, by=%s", booking.ID, providerID, adminID)
	return converter.BookingToResponse(booking), nil
}

func (u *providerAssignmentUsecase) GetAssignmentHistory(ctx context.Context, bookingID uuid.UUID) (*dto.AssignmentHistoryResponse, error) {
	if _, err := u.findBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	assignments, err := u.assignmentRepo.FindByBookingID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to get assignments for booking %s: %+v", bookingID, err)
		return nil, err
	}

	return &dto.AssignmentHistoryResponse{
		Assignments: converter.AssignmentsToResponses(assignments),
		Total:       len(assignments),
	}, nil
}

func (u *providerAssignmentUsecase) findBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}
