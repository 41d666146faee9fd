package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a thin TTL cache over a redis client, used to keep listings
// warm between refresh cycles.
type Redis struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedis connects a cache with a default TTL applied when Set is
// called with ttl of zero.
func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	return &Redis{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl: ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	return r.c.Get(ctx, key).Result()
}

func (r *Redis) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.ttl
	}
	return r.c.Set(ctx, key, val, ttl).Err()
}

// Ping verifies connectivity for health reporting.
func (r *Redis) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *Redis) Close() error { return r.c.Close() }
