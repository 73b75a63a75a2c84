package redis

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/constant"
)

// SweepLock 定义了临时附件清扫任务的分布式互斥锁接口。
// 多副本部署时，只有成功持锁的实例才执行本轮清扫，避免对同一批过期行重复操作。
type SweepLock interface {
	// TryAcquire 尝试获取锁。
	// - 返回 true 表示本实例获得了本轮执行权。
	// - 返回 false 表示其他实例持有锁，本轮应直接跳过（不是错误）。
	TryAcquire(ctx context.Context, ttl time.Duration) (bool, error)

	// Release 释放锁。
	// - 仅当锁仍由本实例持有（token 匹配）时才删除，避免误删他人续租的锁。
	Release(ctx context.Context) error
}

// sweepLockImpl 是 SweepLock 的 Redis 实现：SETNX + TTL + token 校验删除。
type sweepLockImpl struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
	token       string // 本实例本轮持锁的随机标识
}

// NewSweepLock 创建 SweepLock 的新实例。
func NewSweepLock(redisClient *redis.Client, logger *core.ZapLogger) SweepLock {
	return &sweepLockImpl{
		redisClient: redisClient,
		logger:      logger,
	}
}

// releaseScript 只在 value 与持锁 token 一致时删除 key。
// 直接 DEL 会有这样的风险：本实例执行超时、锁已过期并被其他实例抢占，
// 此时 DEL 会把别人的锁删掉。
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// TryAcquire 尝试以 SETNX 获取锁。
func (l *sweepLockImpl) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.redisClient.SetNX(ctx, constant.TempSweepLockKey, token, ttl).Result()
	if err != nil {
		l.logger.Error("获取清扫任务分布式锁失败", zap.Error(err))
		return false, err
	}
	if !ok {
		l.logger.Info("清扫任务锁已被其他实例持有，本轮跳过")
		return false, nil
	}
	l.token = token
	l.logger.Debug("已获取清扫任务分布式锁", zap.Duration("ttl", ttl))
	return true, nil
}

// Release 释放锁（token 匹配时才删除）。
func (l *sweepLockImpl) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	deleted, err := releaseScript.Run(ctx, l.redisClient, []string{constant.TempSweepLockKey}, l.token).Int()
	if err != nil {
		l.logger.Error("释放清扫任务分布式锁失败", zap.Error(err))
		return err
	}
	if deleted == 0 {
		// 锁已过期或被他人持有，无需处理，但值得记录：说明本轮执行时间逼近锁 TTL。
		l.logger.Warn("释放锁时发现锁已不属于本实例，请检查清扫耗时与锁 TTL 的配置")
	}
	l.token = ""
	return nil
}
