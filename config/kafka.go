package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	EntityDeleted     string `mapstructure:"entityDeleted" yaml:"entityDeleted"`         //  兄弟服务发布的实体删除主题（本服务消费，触发附件软删除传播）
	AttachmentExpired string `mapstructure:"attachmentExpired" yaml:"attachmentExpired"` //  临时附件过期清理主题（本服务生产，供审计消费）
	NewsChanged       string `mapstructure:"newsChanged" yaml:"newsChanged"`             //  新闻创建/更新主题（供搜索等下游同步）
	NewsDeleted       string `mapstructure:"newsDeleted" yaml:"newsDeleted"`             //  新闻删除主题
}
