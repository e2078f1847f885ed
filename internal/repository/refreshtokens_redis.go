package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
)

// RefreshTokenKeyPrefix is the Redis key prefix for refresh tokens.
const RefreshTokenKeyPrefix = "refresh_token:"

// RedisRefreshTokenStore keeps each refresh token as a key holding the owner's
// id, expiring RefreshTokenRetention after the token itself.
type RedisRefreshTokenStore struct {
	client redis.UniversalClient
}

func NewRedisRefreshTokenStore(client redis.UniversalClient) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{client: client}
}

func (s *RedisRefreshTokenStore) Save(ctx context.Context, token models.RefreshToken) error {
	ttl := time.Until(token.ExpiresAt.Add(RefreshTokenRetention))
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, RefreshTokenKeyPrefix+token.Token, token.UserID, ttl).Err()
}

func (s *RedisRefreshTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, RefreshTokenKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete relies on DEL's reply count, so two concurrent deletes of the same
// token see exactly one success.
func (s *RedisRefreshTokenStore) Delete(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Del(ctx, RefreshTokenKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
