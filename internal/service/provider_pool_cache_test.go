package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"longa/internal/domain/entity"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockProviderProfileRepo struct{ mock.Mock }

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

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func samplePool() []entity.ProviderCandidate {
	return []entity.ProviderCandidate{
		{ID: uuid.New(), FullName: "Mary Banda", Phone: "0977000111", Location: "Lusaka", IsAvailable: true, Rating: dec("4.5")},
		{ID: uuid.New(), FullName: "John Phiri", Phone: "0966000222", Location: "Ndola", Rating: dec("3.9")},
	}
}

func TestProviderPoolCache_Hit(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(mockProviderProfileRepo)
	cache := NewProviderPoolCache(nil, client, quietLogger(), repo, time.Minute)

	pool := samplePool()
	raw, err := json.Marshal(pool)
	require.NoError(t, err)
	redisMock.ExpectGet(ProviderPoolKey).SetVal(string(raw))

	got, err := cache.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, pool[0].ID, got[0].ID)
	assert.True(t, got[0].Rating.Equal(dec("4.5")))
	repo.AssertNotCalled(t, "FindActiveCandidates", mock.Anything, mock.Anything)
	require.NoError(t, redisMock.ExpectationsWereMet())
}

func TestProviderPoolCache_MissLoadsAndStores(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(mockProviderProfileRepo)
	cache := NewProviderPoolCache(nil, client, quietLogger(), repo, time.Minute)

	pool := samplePool()
	raw, err := json.Marshal(pool)
	require.NoError(t, err)

	redisMock.ExpectGet(ProviderPoolKey).RedisNil()
	redisMock.ExpectGet(ProviderPoolKey).RedisNil()
	repo.On("FindActiveCandidates", mock.Anything, mock.Anything).Return(pool, nil).Once()
	redisMock.ExpectSet(ProviderPoolKey, raw, time.Minute).SetVal("OK")

	got, err := cache.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
	require.NoError(t, redisMock.ExpectationsWereMet())
}

func TestProviderPoolCache_RedisDownFallsBackToStore(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(mockProviderProfileRepo)
	cache := NewProviderPoolCache(nil, client, quietLogger(), repo, time.Minute)

	pool := samplePool()
	raw, err := json.Marshal(pool)
	require.NoError(t, err)

	redisMock.ExpectGet(ProviderPoolKey).SetErr(errors.New("connection refused"))
	redisMock.ExpectGet(ProviderPoolKey).SetErr(errors.New("connection refused"))
	repo.On("FindActiveCandidates", mock.Anything, mock.Anything).Return(pool, nil).Once()
	redisMock.ExpectSet(ProviderPoolKey, raw, time.Minute).SetErr(errors.New("connection refused"))

	got, err := cache.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestProviderPoolCache_StoreErrorSurfaces(t *testing.T) {
	repo := new(mockProviderProfileRepo)
	cache := NewProviderPoolCache(nil, nil, quietLogger(), repo, time.Minute)

	repo.On("FindActiveCandidates", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := cache.Candidates(context.Background())
	assert.Error(t, err)
}

func TestProviderPoolCache_Invalidate(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	cache := NewProviderPoolCache(nil, client, quietLogger(), new(mockProviderProfileRepo), time.Minute)

	redisMock.ExpectDel(ProviderPoolKey).SetVal(1)
	require.NoError(t, cache.Invalidate(context.Background()))

	redisMock.ExpectDel(ProviderPoolKey).SetErr(errors.New("connection refused"))
	assert.Error(t, cache.Invalidate(context.Background()))
	require.NoError(t, redisMock.ExpectationsWereMet())
}
