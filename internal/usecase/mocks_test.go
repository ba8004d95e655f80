package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"longa/internal/delivery/http/middleware"
	"longa/internal/domain/entity"
	"longa/internal/service"
	"longa/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Mock repositories
type mockBookingRepo struct{ mock.Mock }
type mockAssignmentRepo struct{ mock.Mock }
type mockPayoutRepo struct{ mock.Mock }
type mockServiceRepo struct{ mock.Mock }
type mockProviderProfileRepo struct{ mock.Mock }
type mockClientProfileRepo struct{ mock.Mock }
type mockUserRepo struct{ mock.Mock }
type mockRoleRepo struct{ mock.Mock }
type mockAuditLogRepo struct{ mock.Mock }
type mockAuditService struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	return m.Called(ctx, db, booking).Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Booking, error) {
	args := m.Called(ctx, db, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindForProvider(ctx context.Context, db *gorm.DB, providerID uuid.UUID) ([]entity.Booking, error) {
	args := m.Called(ctx, db, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter) ([]entity.Booking, error) {
	args := m.Called(ctx, db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) ApplyTransition(ctx context.Context, db *gorm.DB, transition *entity.BookingTransition) (int64, error) {
	args := m.Called(ctx, db, transition)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, db *gorm.DB, assignment *entity.BookingAssignment) error {
	return m.Called(ctx, db, assignment).Error(0)
}

func (m *mockAssignmentRepo) FindByBookingID(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingAssignment, error) {
	args := m.Called(ctx, db, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BookingAssignment), args.Error(1)
}

func (m *mockPayoutRepo) Create(ctx context.Context, db *gorm.DB, payout *entity.Payout) error {
	return m.Called(ctx, db, payout).Error(0)
}

func (m *mockPayoutRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Payout, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payout), args.Error(1)
}

func (m *mockPayoutRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.PayoutFilter) ([]entity.Payout, error) {
	args := m.Called(ctx, db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payout), args.Error(1)
}

func (m *mockPayoutRepo) FindByBookingID(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.Payout, error) {
	args := m.Called(ctx, db, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payout), args.Error(1)
}

func (m *mockPayoutRepo) FindExportRows(ctx context.Context, db *gorm.DB, filter *entity.PayoutFilter) ([]entity.PayoutExportRow, error) {
	args := m.Called(ctx, db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PayoutExportRow), args.Error(1)
}

func (m *mockPayoutRepo) UpdateStatus(ctx context.Context, db *gorm.DB, ids []uuid.UUID, fromStatus, toStatus entity.PayoutStatus, processedAt *time.Time, externalReference *string, notes string) (int64, error) {
	args := m.Called(ctx, db, ids, fromStatus, toStatus, processedAt, externalReference, notes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) Create(ctx context.Context, db *gorm.DB, svc *entity.Service) error {
	return m.Called(ctx, db, svc).Error(0)
}

func (m *mockServiceRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *mockServiceRepo) FindAll(ctx context.Context, db *gorm.DB, onlyActive bool) ([]entity.Service, error) {
	args := m.Called(ctx, db, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Service), args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, db *gorm.DB, svc *entity.Service) error {
	return m.Called(ctx, db, svc).Error(0)
}

func (m *mockServiceRepo) AddPackageItem(ctx context.Context, db *gorm.DB, item *entity.ServicePackageItem) error {
	return m.Called(ctx, db, item).Error(0)
}

func (m *mockServiceRepo) FindPackageItem(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.ServicePackageItem, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ServicePackageItem), args.Error(1)
}

func (m *mockProviderProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

func (m *mockProviderProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error) {
	args := m.Called(ctx, db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProviderProfile), args.Error(1)
}

func (m *mockProviderProfileRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.ProviderProfile, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProviderProfile), args.Error(1)
}

func (m *mockProviderProfileRepo) FindActiveCandidates(ctx context.Context, db *gorm.DB) ([]entity.ProviderCandidate, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProviderCandidate), args.Error(1)
}

func (m *mockProviderProfileRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.ProviderProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

func (m *mockClientProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.ClientProfile) error {
	return m.Called(ctx, db, profile).Error(0)
}

func (m *mockClientProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.ClientProfile, error) {
	args := m.Called(ctx, db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClientProfile), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return m.Called(ctx, db, user).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return m.Called(ctx, db, user).Error(0)
}

func (m *mockRoleRepo) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	args := m.Called(ctx, db, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Role), args.Error(1)
}

func (m *mockAuditLogRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return m.Called(ctx, db, log).Error(0)
}

func (m *mockAuditLogRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	args := m.Called(ctx, db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AuditLog), args.Error(1)
}

func (m *mockAuditLogRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(ctx, tx, userID, action, entityName, entityID, newValue).Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, userID, action, entityName, entityID, oldValue, newValue).Error(0)
}

func (m *mockAuditService) Log(ctx context.Context, tx *gorm.DB, entry service.AuditEntry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

// acceptAudits lets every audit call through.
func (m *mockAuditService) acceptAudits() *mockAuditService {
	m.On("Log", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*entity.BookingEvent
	err    error
}

func (p *fakePublisher) PublishBookingEvent(_ context.Context, event *entity.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

// fakePool serves a fixed candidate pool.
type fakePool struct {
	pool        []entity.ProviderCandidate
	err         error
	invalidated int
}

func (p *fakePool) Candidates(context.Context) ([]entity.ProviderCandidate, error) {
	return p.pool, p.err
}

func (p *fakePool) Invalidate(context.Context) error {
	p.invalidated++
	return nil
}

// fakeTokenStore keeps token keys in memory.
type fakeTokenStore struct {
	keys map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{keys: map[string]bool{}}
}

func (s *fakeTokenStore) key(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return string(tokenType) + ":" + userID.String() + ":" + tokenID
}

func (s *fakeTokenStore) Store(_ context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, _ time.Duration) error {
	s.keys[s.key(tokenType, userID, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	return s.keys[s.key(tokenType, userID, tokenID)], nil
}

func (s *fakeTokenStore) Revoke(_ context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	delete(s.keys, s.key(tokenType, userID, tokenID))
	return nil
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ctxWithUser(userID uuid.UUID, roleID int) context.Context {
	return middleware.WithClaims(context.Background(), &jwt.Claims{
		UserID:  userID,
		Email:   "user@longa.test",
		RoleID:  roleID,
		TokenID: "token-" + userID.String(),
	})
}

// freezeTime pins timeNow for the duration of the test.
func freezeTime(t *testing.T, now time.Time) {
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}
