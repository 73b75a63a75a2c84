package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/config"
	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/mq/producer"
	"github.com/Xushengqwer/content_service/repo/redis"
	"github.com/Xushengqwer/content_service/service"
)

// TempAttachmentSweepTask 负责定时清理过期的临时附件。
// 上传后超过保留窗口仍未与任何业务实体关联的文件视为被放弃：
// 删除 COS 对象（尽力而为）并软删除元数据行，最后把清理结果发布到 Kafka 供审计。
type TempAttachmentSweepTask struct {
	attachmentSvc service.AttachmentService // 附件生命周期服务（执行实际清理）
	sweepLock     redis.SweepLock           // 分布式锁，多副本部署时保证单实例执行
	kafkaProducer *producer.KafkaProducer   // 清理结果事件的生产者
	cfg           config.AttachmentConfig   // 保留窗口 / 调度 / 批量大小 / 锁 TTL
	cron          *cron.Cron                // cron V3 实例
	logger        *core.ZapLogger           // 日志记录器
}

// NewTempAttachmentSweepTask 初始化并启动临时附件清扫的定时任务。
func NewTempAttachmentSweepTask(
	attachmentSvc service.AttachmentService,
	sweepLock redis.SweepLock,
	kafkaProducer *producer.KafkaProducer,
	cfg config.AttachmentConfig,
	logger *core.ZapLogger,
) *TempAttachmentSweepTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &TempAttachmentSweepTask{
		attachmentSvc: attachmentSvc,
		sweepLock:     sweepLock,
		kafkaProducer: kafkaProducer,
		cfg:           cfg,
		cron:          cronV3,
		logger:        logger,
	}
	task.startCronJob() // 在构造函数中启动定时作业
	return task
}

// retention 返回生效的保留窗口（配置缺省时使用默认值）。
func (t *TempAttachmentSweepTask) retention() time.Duration {
	if t.cfg.TempRetentionHours > 0 {
		return time.Duration(t.cfg.TempRetentionHours) * time.Hour
	}
	return constant.DefaultTempRetention
}

// lockTTL 返回生效的分布式锁过期时间。
func (t *TempAttachmentSweepTask) lockTTL() time.Duration {
	if t.cfg.SweepLockTTLSeconds > 0 {
		return time.Duration(t.cfg.SweepLockTTLSeconds) * time.Second
	}
	return constant.DefaultSweepLockTTL
}

// batchSize 返回生效的单批行数上限。
func (t *TempAttachmentSweepTask) batchSize() int {
	if t.cfg.SweepBatchSize > 0 {
		return t.cfg.SweepBatchSize
	}
	return constant.DefaultSweepBatchSize
}

// startCronJob 配置并启动 cron 作业。
func (t *TempAttachmentSweepTask) startCronJob() {
	schedule := t.cfg.SweepCronSpec
	if schedule == "" {
		schedule = constant.DefaultSweepCronSpec
	}
	t.logger.Info("准备启动临时附件清扫定时任务",
		zap.String("schedule", schedule),
		zap.Duration("retention", t.retention()))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("临时附件清扫任务开始执行...")
		startTime := time.Now()
		// 单次执行的超时与锁 TTL 对齐：任务耗时逼近锁过期本身就是异常。
		ctx, cancel := context.WithTimeout(context.Background(), t.lockTTL())
		defer cancel()

		t.sweepOnce(ctx)

		duration := time.Since(startTime)
		t.logger.Info("临时附件清扫任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		// schedule 表达式错误属于配置级故障，直接快速失败。
		t.logger.Fatal("添加临时附件清扫 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start() // 启动 cron 调度器 (在后台 goroutine 中运行)
	t.logger.Info("临时附件清扫定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// sweepOnce 是定时任务执行的实际清扫逻辑。
// 1. 获取分布式锁，未获取到说明其他实例正在执行，本轮跳过。
// 2. 调用附件服务清理保留窗口外的临时附件。
// 3. 有清理结果时发布过期事件到 Kafka（尽力而为）。
func (t *TempAttachmentSweepTask) sweepOnce(ctx context.Context) {
	acquired, err := t.sweepLock.TryAcquire(ctx, t.lockTTL())
	if err != nil {
		t.logger.Error("获取清扫锁时发生错误，本轮清扫中止。", zap.Error(err))
		return
	}
	if !acquired {
		return // 其他实例持锁，正常跳过
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := t.sweepLock.Release(releaseCtx); releaseErr != nil {
			t.logger.Error("释放清扫锁失败", zap.Error(releaseErr))
		}
	}()

	expiredIDs, err := t.attachmentSvc.ExpireStaleTemporary(ctx, t.retention(), t.batchSize())
	if err != nil {
		// 部分批次可能已清理成功，expiredIDs 里是已完成的部分，事件仍然要发。
		t.logger.Error("清理过期临时附件时发生错误", zap.Error(err), zap.Int("cleanedCount", len(expiredIDs)))
	}
	if len(expiredIDs) == 0 {
		t.logger.Info("没有过期的临时附件需要清理。")
		return
	}

	if sendErr := t.kafkaProducer.SendAttachmentExpiredEvent(ctx, expiredIDs); sendErr != nil {
		// 事件丢失不影响清理结果本身，审计侧可通过数据库比对兜底。
		t.logger.Warn("发送临时附件过期事件失败", zap.Error(sendErr), zap.Int("count", len(expiredIDs)))
	}
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *TempAttachmentSweepTask) Stop() context.Context {
	t.logger.Info("正在停止临时附件清扫定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("临时附件清扫定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
