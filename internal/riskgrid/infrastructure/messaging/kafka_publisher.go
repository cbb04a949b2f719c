package messaging

import (
	"context"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

// MessageSender 发送 JSON 消息，由 pkg/mq.KafkaProducer 实现
type MessageSender interface {
	SendMessage(ctx context.Context, topic string, key string, value any) error
}

// Envelope 事件信封
type Envelope struct {
	EventType string `json:"event_type"`
	Payload   any    `json:"payload"`
}

// KafkaEventPublisher 实现 EventPublisher 接口，事件写入 Kafka
type KafkaEventPublisher struct {
	sender MessageSender
	topic  string
}

var _ domain.EventPublisher = (*KafkaEventPublisher)(nil)

// NewKafkaEventPublisher 创建新的 KafkaEventPublisher 实例
func NewKafkaEventPublisher(sender MessageSender, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{sender: sender, topic: topic}
}

// PublishSurfaceGenerated 发布曲面生成完成事件，以 run_id 作为分区键
func (p *KafkaEventPublisher) PublishSurfaceGenerated(ctx context.Context, event domain.SurfaceGeneratedEvent) error {
	return p.sender.SendMessage(ctx, p.topic, event.RunID, Envelope{
		EventType: domain.SurfaceGeneratedEventType,
		Payload:   event,
	})
}
