package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 抽象事务边界，使服务层的事务编排可以脱离具体数据库做测试。
// 仓库层的写方法都接收 db *gorm.DB 参数，与这里的回调参数配合使用。
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// gormTxManager 是 TxManager 基于 GORM 的实现。
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager 创建 TxManager 的新实例。
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// WithTransaction 在一个数据库事务内执行 fn，fn 返回错误时整体回滚。
func (m *gormTxManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
