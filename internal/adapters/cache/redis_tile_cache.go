package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"travelmap-service/internal/platform/obs"
)

const redisKeyPrefix = "travelmap:tile:"

// RedisTileCache stores tiles in Redis with a fixed expiry.
type RedisTileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis returns nil when addr is empty.
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func NewRedisTileCache(client *redis.Client, ttl time.Duration) *RedisTileCache {
	return &RedisTileCache{client: client, ttl: ttl}
}

func (r *RedisTileCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "tilecache.redis.Get")(&err)

	b, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis tile cache get %q: %w", key, err)
	}
	return b, true, nil
}

func (r *RedisTileCache) Put(ctx context.Context, key string, png []byte) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, png, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis tile cache put %q: %w", key, err)
	}
	return nil
}
