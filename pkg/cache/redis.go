package cache

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a thin cache wrapper. When Redis is not configured or unreachable
// the wrapper degrades to a no-op so the API keeps working without a cache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

// New connects to Redis at addr. An empty addr disables caching entirely.
func New(addr, password string, ttl time.Duration) *Redis {
	if addr == "" {
		return &Redis{ttl: ttl}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] redis unavailable, bypassing cache: %v", err)
		_ = client.Close()
		return &Redis{ttl: ttl}
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		log.Printf("[cache] redis unavailable, bypassing cache: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

// GetString returns the cached value for key; found is false on miss or when
// the cache is bypassed.
func (r *Redis) GetString(ctx context.Context, key string) (string, bool) {
	if r.isUnavailable() {
		return "", false
	}
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warnUnavailableOnce(err)
		}
		return "", false
	}
	return v, true
}

func (r *Redis) SetString(ctx context.Context, key, value string) {
	if r.isUnavailable() {
		return
	}
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if r.isUnavailable() || len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}
