package config

import "github.com/Xushengqwer/go-common/config"

type ContentConfig struct {
	ZapConfig        config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig    config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig     config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig     config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	AttachmentConfig AttachmentConfig     `mapstructure:"attachmentConfig" json:"attachmentConfig" yaml:"attachmentConfig"`
	MySQLConfig      MySQLConfig          `mapstructure:"mysqlConfig" json:"mysqlConfig" yaml:"mysqlConfig"`
	RedisConfig      RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig      KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	COSConfig        COSConfig            `mapstructure:"attachmentCosConfig" json:"attachmentCosConfig" yaml:"attachmentCosConfig"`
}
