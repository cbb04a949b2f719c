// Package redis 宽表查询结果的 Redis 缓存
package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/cache"
)

// DefaultTTL 未配置时的缓存有效期
const DefaultTTL = 5 * time.Minute

// WideTableCache 基于 pkg/cache 的宽表缓存
type WideTableCache struct {
	cache *cache.RedisCache
}

var _ domain.WideTableCache = (*WideTableCache)(nil)

// NewWideTableCache 创建宽表缓存
func NewWideTableCache(c *cache.RedisCache) *WideTableCache {
	return &WideTableCache{cache: c}
}

// Get 读取缓存，未命中返回 false
func (c *WideTableCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return c.cache.GetJSON(ctx, key, dest)
}

// Set 写入缓存，ttl 非正时使用 DefaultTTL
func (c *WideTableCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.cache.SetJSON(ctx, key, value, ttl)
}
