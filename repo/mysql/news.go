package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
)

// NewsRepository 定义了新闻数据在 MySQL 中的持久化操作接口。
type NewsRepository interface {
	// CreateNews 持久化一条新的新闻记录。
	CreateNews(ctx context.Context, db *gorm.DB, news *entities.News) error

	// UpdateNews 按字段映射更新指定新闻。
	// - 总是会自动更新修改时间 (updated_at)。
	UpdateNews(ctx context.Context, db *gorm.DB, newsID uint64, fields map[string]interface{}) error

	// GetNewsByID 根据单个 ID 检索新闻。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound 错误。
	GetNewsByID(ctx context.Context, newsID uint64) (*entities.News, error)

	// DeleteNews 对指定新闻执行软删除。
	// - 软删除是通过 GORM 的约定（填充 deleted_at 字段）实现的，数据本身仍在数据库中。
	DeleteNews(ctx context.Context, db *gorm.DB, newsID uint64) error
}

// newsRepository 是 NewsRepository 接口针对 MySQL 的具体实现。
type newsRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewNewsRepository 是 newsRepository 的构造函数。
func NewNewsRepository(db *gorm.DB, logger *core.ZapLogger) NewsRepository {
	return &newsRepository{db: db, logger: logger}
}

// CreateNews 实现新闻的数据库插入操作。
func (r *newsRepository) CreateNews(ctx context.Context, db *gorm.DB, news *entities.News) error {
	if err := db.WithContext(ctx).Create(news).Error; err != nil {
		return err
	}
	return nil
}

// UpdateNews 按字段映射更新新闻，并刷新 updated_at。
func (r *newsRepository) UpdateNews(ctx context.Context, db *gorm.DB, newsID uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新新闻", zap.Uint64("newsID", newsID))
		return nil
	}
	fields["updated_at"] = time.Now()

	result := db.WithContext(ctx).
		Model(&entities.News{}).
		Where("id = ? AND deleted_at IS NULL", newsID).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error("更新新闻数据库操作失败", zap.Uint64("newsID", newsID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// GetNewsByID 根据 ID 检索未删除的新闻。
func (r *newsRepository) GetNewsByID(ctx context.Context, newsID uint64) (*entities.News, error) {
	var news entities.News
	if err := r.db.WithContext(ctx).First(&news, newsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &news, nil
}

// DeleteNews 对新闻执行软删除。
func (r *newsRepository) DeleteNews(ctx context.Context, db *gorm.DB, newsID uint64) error {
	result := db.WithContext(ctx).Delete(&entities.News{}, newsID)
	if result.Error != nil {
		r.logger.Error("软删除新闻失败", zap.Uint64("newsID", newsID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
