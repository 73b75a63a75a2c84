package config

// AttachmentConfig 包含附件生命周期相关的配置。
type AttachmentConfig struct {
	// TempRetentionHours 是临时附件的保留窗口（小时）。
	// 超过该窗口仍未与任何业务实体关联的临时附件，会被后台清扫任务删除（文件 + 软删除行）。
	// 注意：该窗口必须远大于一次关联操作的最坏耗时，否则清扫任务可能与正在进行的关联产生竞争。
	// 默认 24 小时。
	TempRetentionHours int `mapstructure:"tempRetentionHours" json:"tempRetentionHours" yaml:"tempRetentionHours"`

	// SweepCronSpec 是临时附件清扫任务的 cron 表达式（robfig/cron V3 格式）。
	// 例如 "@hourly" 或 "0 * * * *"。
	SweepCronSpec string `mapstructure:"sweepCronSpec" json:"sweepCronSpec" yaml:"sweepCronSpec"`

	// SweepBatchSize 是清扫任务单次从数据库取出的过期临时附件数量上限。
	// 清扫会循环取批直到没有更多符合条件的行，批量大小主要用于限制单条 SQL 的规模。
	SweepBatchSize int `mapstructure:"sweepBatchSize" json:"sweepBatchSize" yaml:"sweepBatchSize"`

	// SweepLockTTLSeconds 是清扫任务分布式锁（Redis SETNX）的过期秒数。
	// 多副本部署时保证同一时刻只有一个实例执行清扫；锁 TTL 应大于一次清扫的最坏耗时。
	SweepLockTTLSeconds int `mapstructure:"sweepLockTTLSeconds" json:"sweepLockTTLSeconds" yaml:"sweepLockTTLSeconds"`

	// MaxUploadSizeMB 是单个上传文件的大小上限（MB），在控制器层校验。
	MaxUploadSizeMB int64 `mapstructure:"maxUploadSizeMB" json:"maxUploadSizeMB" yaml:"maxUploadSizeMB"`

	// AllowedExtensions 是允许上传的文件扩展名白名单（小写、带点，例如 ".jpg"）。
	// 为空表示不限制。内容策略校验属于外围约束，核心关联逻辑不依赖它。
	AllowedExtensions []string `mapstructure:"allowedExtensions" json:"allowedExtensions" yaml:"allowedExtensions"`
}
