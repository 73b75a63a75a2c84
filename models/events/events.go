package events

import "time"

// 本包定义内容服务与兄弟服务之间交换的 Kafka 事件结构。
// 事件结构保持扁平，字段只增不改，保证跨服务兼容。

// EntityDeletedEvent 由兄弟服务在删除业务实体时发布。
// 本服务消费该事件，对实体名下的全部附件执行软删除传播。
type EntityDeletedEvent struct {
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	ObjectType string    `json:"object_type"` // "news" | "notification" | "product" | "service"
	ObjectID   uint64    `json:"object_id"`
}

// AttachmentExpiredEvent 由本服务的清扫任务发布。
// 每轮清扫发布一条，携带本轮被清理的临时附件ID集合，供审计服务消费。
type AttachmentExpiredEvent struct {
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	AttachmentIDs []uint64  `json:"attachment_ids"`
	Count         int       `json:"count"`
}

// NewsChangedEvent 在新闻创建或更新成功后发布，供搜索等下游同步。
type NewsChangedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	NewsID    uint64    `json:"news_id"`
	Action    string    `json:"action"` // "created" | "updated"
}

// NewsDeletedEvent 在新闻删除成功后发布。
type NewsDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	NewsID    uint64    `json:"news_id"`
}
