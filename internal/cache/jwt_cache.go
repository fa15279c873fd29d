package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTokenTTL = 5 * time.Minute

type JWTCache interface {
	GetUserID(ctx context.Context, token string) (string, error)
	SetUserID(ctx context.Context, token, userID string, ttl time.Duration) error
}

type redisJWTCache struct {
	client *redis.Client
}

func NewRedisJWTCache(client *redis.Client) JWTCache {
	return &redisJWTCache{client: client}
}

func tokenKey(token string) string {
	return "jwt:" + token
}

// GetUserID returns redis.Nil when the token is not cached.
func (c *redisJWTCache) GetUserID(ctx context.Context, token string) (string, error) {
	return c.client.Get(ctx, tokenKey(token)).Result()
}

func (c *redisJWTCache) SetUserID(ctx context.Context, token, userID string, ttl time.Duration) error {
	if ttl <= 0 || ttl > DefaultTokenTTL {
		ttl = DefaultTokenTTL
	}
	return c.client.Set(ctx, tokenKey(token), userID, ttl).Err()
}
