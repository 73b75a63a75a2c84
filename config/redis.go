package config

// RedisConfig 包含 Redis 连接配置。
// 本服务仅将 Redis 用于后台任务的分布式锁，不承载业务缓存。
type RedisConfig struct {
	Address  string `mapstructure:"address" json:"address" yaml:"address"`    // host:port
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 可为空
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 逻辑库编号
	PoolSize int    `mapstructure:"pool_size" json:"pool_size" yaml:"pool_size"`
}
