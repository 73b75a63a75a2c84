package constant

import "time"

// COS 对象键前缀常量
const (
	// COSObjectKeyPrefixTemp 是临时附件在 COS 中的存放前缀。
	// 上传后尚未与任何业务实体关联的文件都落在这个前缀下，
	// 示例键: "uploads/tmp/image/20250901/550e8400-...jpg"
	COSObjectKeyPrefixTemp = "uploads/tmp/"

	// COSObjectKeyPrefixPermanent 是附件晋升为永久后所在的前缀。
	// 永久键按内容类别 + 年月分区，示例键: "uploads/images/2025/09/42.jpg"
	COSObjectKeyPrefixPermanent = "uploads/"
)

// 附件生命周期默认参数（配置缺省时使用）
const (
	// DefaultTempRetention 是临时附件的默认保留窗口。
	// 窗口必须远大于一次关联操作的最坏耗时，否则清扫与关联存在竞争（视为配置错误）。
	DefaultTempRetention = 24 * time.Hour

	// DefaultSweepCronSpec 是临时附件清扫任务的默认调度表达式。
	DefaultSweepCronSpec = "@hourly"

	// DefaultSweepBatchSize 是清扫任务单批处理的行数上限。
	DefaultSweepBatchSize = 200

	// DefaultSweepLockTTL 是清扫分布式锁的默认过期时间。
	DefaultSweepLockTTL = 10 * time.Minute

	// PromoteMaxRetries 是晋升时 COS 移动操作对瞬时错误的最大重试次数。
	PromoteMaxRetries = 3
)
