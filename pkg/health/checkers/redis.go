package checkers

import (
	"context"

	"github.com/mohadmohamed/depi-interview/pkg/cache"
)

type RedisChecker struct {
	cache *cache.Redis
}

func NewRedisChecker(c *cache.Redis) *RedisChecker {
	return &RedisChecker{cache: c}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	return c.cache.Ping(ctx)
}
