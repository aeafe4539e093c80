package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyCatalogProducts = "catalog:products"
	keyCatalogBanners  = "catalog:banners"
)

const DefaultCacheTTL = 5 * time.Minute

// catalogCache is a best-effort JSON cache in front of the catalog tables.
// A nil cache or Redis failure only costs a database round-trip.
type catalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newCatalogCache(rdb *redis.Client, ttl time.Duration) *catalogCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &catalogCache{rdb: rdb, ttl: ttl}
}

func (c *catalogCache) load(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		zap.L().Warn("catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *catalogCache) store(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("catalog cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		zap.L().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *catalogCache) invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
