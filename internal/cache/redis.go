package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/oggyb/matchfeed/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForRotationLock generates the advisory lock key for one (city, date)
// rotation run.
func (c *RedisCache) KeyForRotationLock(cityKey, date string) string {
	return fmt.Sprintf("rotation:lock:%s:%s", cityKey, date)
}

// AcquireRotationLock claims the per-(city, date) rotation lock. Returns
// true when this caller owns the run; false means another run already
// happened or is in flight for that key within the TTL window.
func (c *RedisCache) AcquireRotationLock(ctx context.Context, cityKey, date string, ttl time.Duration) (bool, error) {
	return c.Client.SetNX(ctx, c.KeyForRotationLock(cityKey, date), "1", ttl).Result()
}

// ReleaseRotationLock frees the lock early. Only called when a rotation
// attempt fails partway, so the next trigger can retry the same day.
func (c *RedisCache) ReleaseRotationLock(ctx context.Context, cityKey, date string) error {
	return c.Del(ctx, c.KeyForRotationLock(cityKey, date))
}
