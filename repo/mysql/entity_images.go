package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
)

// EntityImageRepository 定义了业务实体非规范化图片字段的回写接口。
// 特色图关联成功后，实体自身的 image_url / featured_image_id 会同步更新，
// 使列表读路径无需 join attachments 表。
type EntityImageRepository interface {
	// SetFeaturedImage 设置实体的特色图快照字段。
	// - 如果实体不存在（或已删除），返回 commonerrors.ErrRepoNotFound。
	SetFeaturedImage(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64, imageURL string, attachmentID uint64) error

	// ClearFeaturedImage 清空实体的特色图快照字段（image_url 置空串，featured_image_id 置 NULL）。
	// - 实体不存在时同样返回 commonerrors.ErrRepoNotFound。
	ClearFeaturedImage(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64) error
}

// entityImageRepository 按实体类型路由到各自的表。
// 四类实体的图片字段结构一致（image_url / featured_image_id），用表名映射即可。
type entityImageRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewEntityImageRepository 创建 EntityImageRepository 的新实例。
func NewEntityImageRepository(db *gorm.DB, logger *core.ZapLogger) EntityImageRepository {
	return &entityImageRepository{db: db, logger: logger}
}

// tableForObjectType 返回实体类型对应的表名。
func tableForObjectType(objectType entities.ObjectType) (string, error) {
	switch objectType {
	case entities.ObjectTypeNews:
		return entities.News{}.TableName(), nil
	case entities.ObjectTypeNotification:
		return "notifications", nil
	case entities.ObjectTypeProduct:
		return "products", nil
	case entities.ObjectTypeService:
		return entities.ServiceItem{}.TableName(), nil
	default:
		return "", fmt.Errorf("未知的实体类型: %s", objectType)
	}
}

// SetFeaturedImage 设置实体的特色图快照字段。
func (r *entityImageRepository) SetFeaturedImage(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64, imageURL string, attachmentID uint64) error {
	table, err := tableForObjectType(objectType)
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).
		Table(table).
		Where("id = ? AND deleted_at IS NULL", objectID).
		Updates(map[string]interface{}{
			"image_url":         imageURL,
			"featured_image_id": attachmentID,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("回写实体特色图字段失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ClearFeaturedImage 清空实体的特色图快照字段。
func (r *entityImageRepository) ClearFeaturedImage(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64) error {
	table, err := tableForObjectType(objectType)
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).
		Table(table).
		Where("id = ? AND deleted_at IS NULL", objectID).
		Updates(map[string]interface{}{
			"image_url":         "",
			"featured_image_id": nil,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("清空实体特色图字段失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
