package domain

import (
	"context"
	"time"
)

// RecordSink 平面文件写出
type RecordSink interface {
	Write(ctx context.Context, records []RiskRecord) error
}

// RecordSource 平面文件读入
type RecordSource interface {
	Read(ctx context.Context) ([]RiskRecord, error)
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishSurfaceGenerated 发布曲面生成完成事件
	PublishSurfaceGenerated(ctx context.Context, event SurfaceGeneratedEvent) error
}

// WideTableCache 宽表查询结果缓存，value 为任意可 JSON 序列化对象
type WideTableCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
