package eveapi

import (
	"context"
	"errors"
	"time"

	"go-evelink/pkg/database"
)

const redisKeyPrefix = "eveapi:cache:"

// RedisCacheManager shares cached responses between processes through Redis
type RedisCacheManager struct {
	redis *database.Redis
}

func NewRedisCacheManager(redis *database.Redis) *RedisCacheManager {
	return &RedisCacheManager{redis: redis}
}

func (r *RedisCacheManager) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.redis.Get(ctx, redisKeyPrefix+key)
	if err != nil {
		if errors.Is(err, database.ErrNil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(data), true, nil
}

// Set relies on the Redis TTL for expiry
func (r *RedisCacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.redis.Set(ctx, redisKeyPrefix+key, data, ttl)
}

func (r *RedisCacheManager) Backend() string {
	return "redis"
}
