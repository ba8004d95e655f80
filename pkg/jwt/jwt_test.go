package jwt

import (
	"context"
	"testing"
	"time"

	"longa/config"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "mary@example.com", 2)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, 2, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, _, err := newTestService().GenerateRefreshToken(uuid.New(), "a@example.com", 3)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: -time.Minute})
	token, _, err := svc.GenerateAccessToken(uuid.New(), "a@example.com", 1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenStore(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewTokenStore(client)
	userID := uuid.MustParse("8f0d5e4a-2b1c-4d3e-9f8a-7b6c5d4e3f2a")
	key := "access_token:8f0d5e4a-2b1c-4d3e-9f8a-7b6c5d4e3f2a:tok-1"
	ctx := context.Background()

	mock.ExpectSet(key, "valid", 15*time.Minute).SetVal("OK")
	require.NoError(t, store.Store(ctx, AccessToken, userID, "tok-1", 15*time.Minute))

	mock.ExpectExists(key).SetVal(1)
	ok, err := store.Exists(ctx, AccessToken, userID, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, store.Revoke(ctx, AccessToken, userID, "tok-1"))

	mock.ExpectExists(key).SetVal(0)
	ok, err = store.Exists(ctx, AccessToken, userID, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}
