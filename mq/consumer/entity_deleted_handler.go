package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/events"
	"github.com/Xushengqwer/content_service/service"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// EntityDeletedHandler 消费兄弟服务发布的实体删除事件，
// 对被删实体名下的全部附件执行软删除传播。
type EntityDeletedHandler struct {
	logger         *core.ZapLogger
	associationSvc service.AssociationService
}

func NewEntityDeletedHandler(logger *core.ZapLogger, associationSvc service.AssociationService) *EntityDeletedHandler {
	return &EntityDeletedHandler{
		logger:         logger,
		associationSvc: associationSvc,
	}
}

func (h *EntityDeletedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("EntityDeletedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.EntityDeletedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("EntityDeletedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	objectType := entities.ObjectType(event.ObjectType)
	if !objectType.Valid() {
		h.logger.Error("EntityDeletedHandler: 事件携带未知的实体类型",
			zap.String("event_id", event.EventID),
			zap.String("object_type", event.ObjectType))
		return nil // 不重试携带非法类型的消息
	}

	h.logger.Info("EntityDeletedHandler: 成功解析实体删除消息",
		zap.String("event_id", event.EventID),
		zap.String("object_type", event.ObjectType),
		zap.Uint64("object_id", event.ObjectID))

	// 附件软删除是幂等操作，消息重复投递时重放无副作用。
	propagateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.associationSvc.SoftDeleteEntityAttachments(propagateCtx, objectType, event.ObjectID); err != nil {
		h.logger.Error("EntityDeletedHandler: 附件软删除传播失败",
			zap.Error(err),
			zap.String("object_type", event.ObjectType),
			zap.Uint64("object_id", event.ObjectID))
		return fmt.Errorf("EntityDeletedHandler: 传播实体删除失败: %w", err)
	}

	h.logger.Info("EntityDeletedHandler: 附件软删除传播完成",
		zap.String("object_type", event.ObjectType),
		zap.Uint64("object_id", event.ObjectID))
	return nil
}
