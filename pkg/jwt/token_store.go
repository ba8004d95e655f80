package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued token ids in Redis. A token is only honoured
// while its key exists, so deleting the key revokes it.
type TokenStore struct {
	redisClient *redis.Client
}

func NewTokenStore(redisClient *redis.Client) *TokenStore {
	return &TokenStore{redisClient: redisClient}
}

func tokenKey(tokenType TokenType, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func (s *TokenStore) Store(ctx context.Context, tokenType TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (s *TokenStore) Exists(ctx context.Context, tokenType TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *TokenStore) Revoke(ctx context.Context, tokenType TokenType, userID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, tokenKey(tokenType, userID, tokenID)).Err()
}
