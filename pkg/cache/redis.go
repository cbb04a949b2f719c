// Package cache 提供 Redis 客户端封装，JSON 序列化读写，使用熔断器保护下游
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/wyfcoding/optionrisk/pkg/logger"
)

// Config Redis 配置
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	MaxPoolSize  int
	ConnTimeout  int
	ReadTimeout  int
	WriteTimeout int
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker
}

// New 创建 Redis 缓存实例并测试连接
func New(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.MaxPoolSize,
		DialTimeout:     time.Duration(cfg.ConnTimeout) * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		ReadTimeout:     time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(context.Background(), "Redis connected successfully", "addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	return NewFromClient(client), nil
}

// NewFromClient 基于已有客户端创建缓存实例
func NewFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "redis",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn(context.Background(), "circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// GetJSON 读取 JSON 缓存值，found 表示 key 是否存在
func (rc *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := rc.breaker.Execute(func() (interface{}, error) {
		val, err := rc.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		logger.Error(ctx, "Redis Get failed", "key", key, "error", err)
		return false, err
	}
	val, ok := raw.([]byte)
	if !ok || val == nil {
		return false, nil
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存值
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = rc.breaker.Execute(func() (interface{}, error) {
		return nil, rc.client.Set(ctx, key, data, expiration).Err()
	})
	if err != nil {
		logger.Error(ctx, "Redis Set failed", "key", key, "error", err)
	}
	return err
}

// Close 关闭连接
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client 返回底层客户端
func (rc *RedisCache) Client() redis.UniversalClient {
	return rc.client
}
