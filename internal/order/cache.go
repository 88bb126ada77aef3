package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velora-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keeps a user's order list warm between reads. It is a pure
// accelerator: every miss or Redis error falls through to Postgres.
type Cache interface {
	GetUserOrders(ctx context.Context, userID uint) ([]Order, bool)
	SetUserOrders(ctx context.Context, userID uint, orders []Order)
	InvalidateUser(ctx context.Context, userID uint)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &redisCache{client: client, ttl: ttl}
}

func userOrdersKey(userID uint) string {
	return fmt.Sprintf("orders:user:%d", userID)
}

func (c *redisCache) GetUserOrders(ctx context.Context, userID uint) ([]Order, bool) {
	raw, err := c.client.Get(ctx, userOrdersKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.FromCtx(ctx).Warn("redis: get user orders failed", zap.Error(err))
		}
		return nil, false
	}

	var orders []Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		logger.FromCtx(ctx).Warn("redis: corrupt cache entry", zap.Error(err))
		c.InvalidateUser(ctx, userID)
		return nil, false
	}

	return orders, true
}

func (c *redisCache) SetUserOrders(ctx context.Context, userID uint, orders []Order) {
	raw, err := json.Marshal(orders)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, userOrdersKey(userID), raw, c.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("redis: set user orders failed", zap.Error(err))
	}
}

func (c *redisCache) InvalidateUser(ctx context.Context, userID uint) {
	if err := c.client.Del(ctx, userOrdersKey(userID)).Err(); err != nil {
		logger.FromCtx(ctx).Warn("redis: invalidate failed", zap.Error(err))
	}
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetUserOrders(ctx context.Context, userID uint) ([]Order, bool) { return nil, false }
func (NoopCache) SetUserOrders(ctx context.Context, userID uint, orders []Order) {}
func (NoopCache) InvalidateUser(ctx context.Context, userID uint)                {}
