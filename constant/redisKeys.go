package constant

// Redis Key 相关常量 (导出)
const (
	// TempSweepLockKey 是临时附件清扫任务的分布式锁 Key。
	// 多副本部署时，只有成功 SETNX 该 Key 的实例才执行本轮清扫。
	// Redis 类型: String，值为本次持锁实例生成的随机 token，带 TTL。
	TempSweepLockKey = "attachment:temp_sweep_lock"
)
