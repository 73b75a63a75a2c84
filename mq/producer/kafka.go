package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/config"
	"github.com/Xushengqwer/content_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendAttachmentExpiredEvent 发送临时附件过期清理事件到 Kafka
// - 意图: 清扫任务每轮结束后，把本轮清理的附件ID集合通知审计服务
// - 输入: ctx context.Context 上下文, attachmentIDs []uint64 本轮清理的附件ID
// - 输出: error 错误信息
func (p *KafkaProducer) SendAttachmentExpiredEvent(ctx context.Context, attachmentIDs []uint64) error {
	event := events.AttachmentExpiredEvent{
		EventID:       uuid.New().String(),
		Timestamp:     time.Now(),
		AttachmentIDs: attachmentIDs,
		Count:         len(attachmentIDs),
	}
	return p.SendEvent(ctx, p.topics.AttachmentExpired, event)
}

// SendNewsChangedEvent 发送新闻变更事件到 Kafka
// - 意图: 新闻创建或更新成功后通知搜索等下游同步
// - 输入: ctx context.Context 上下文, newsID uint64 新闻ID, action string 变更动作（created/updated）
// - 输出: error 错误信息
func (p *KafkaProducer) SendNewsChangedEvent(ctx context.Context, newsID uint64, action string) error {
	event := events.NewsChangedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		NewsID:    newsID,
		Action:    action,
	}
	return p.SendEvent(ctx, p.topics.NewsChanged, event)
}

// SendNewsDeletedEvent 发送新闻删除事件到 Kafka
// - 意图: 新闻删除成功后通知下游清理各自的派生数据
// - 输入: ctx context.Context 上下文, newsID uint64 新闻ID
// - 输出: error 错误信息
func (p *KafkaProducer) SendNewsDeletedEvent(ctx context.Context, newsID uint64) error {
	event := events.NewsDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		NewsID:    newsID,
	}
	return p.SendEvent(ctx, p.topics.NewsDeleted, event)
}

// Close 关闭底层的 Kafka Writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
