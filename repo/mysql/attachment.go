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

// AttachmentRepository 定义了附件数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
// 所有写方法都接收 db *gorm.DB 参数，便于服务层把多次写合入同一事务。
type AttachmentRepository interface {
	// Create 持久化一个新的附件记录。
	// - 附件生命周期的起点：上传成功后以临时状态入库。
	Create(ctx context.Context, db *gorm.DB, attachment *entities.Attachment) error

	// UpdateFields 按字段映射更新指定附件。
	// - 晋升与重新打标都通过这里完成，调用方负责组装字段映射。
	// - 总是会自动更新修改时间 (updated_at)。
	UpdateFields(ctx context.Context, db *gorm.DB, id uint64, fields map[string]interface{}) error

	// FindByID 根据单个 ID 检索未删除的附件。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound。
	FindByID(ctx context.Context, id uint64) (*entities.Attachment, error)

	// FindByIDUnscoped 根据 ID 检索附件，包含已软删除的行。
	// - 协调器在“重置后重建”时需要看见本次调用里刚被软删除的行，以便恢复它们。
	FindByIDUnscoped(ctx context.Context, db *gorm.DB, id uint64) (*entities.Attachment, error)

	// FindByObject 检索实体名下全部未删除附件，按 order_index, id 升序。
	FindByObject(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error)

	// FindGalleryByObject 检索实体的图库附件（未删除、非特色、非正文内嵌），按 ID 升序。
	// - ID 升序给调用方一个稳定的比对基线。
	FindGalleryByObject(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error)

	// FindPrimaryByObject 检索实体的特色图附件（未删除、is_primary = true），按 ID 升序。
	// - 正常情况下至多一条；返回切片是为了让服务层能察觉不变量被破坏的脏数据。
	FindPrimaryByObject(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error)

	// FindTemporaryOlderThan 检索创建时间早于 cutoff 的临时附件，按 ID 升序，最多 limit 条。
	// - 清扫任务分批消费该查询。
	FindTemporaryOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Attachment, error)

	// SoftDeleteByIDs 对指定附件集合执行软删除。
	SoftDeleteByIDs(ctx context.Context, db *gorm.DB, ids []uint64) error

	// SoftDeleteByObject 对实体名下全部未删除附件执行软删除（实体删除时的传播）。
	SoftDeleteByObject(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64) error

	// Restore 恢复一条已软删除的附件行（deleted_at 置 NULL）。
	// - 仅由协调器在重置后重建流程中使用。
	Restore(ctx context.Context, db *gorm.DB, id uint64) error

	// SoftDeleteSupersededPrimary 软删除实体名下不在保留集合中的特色图行。
	// - 协调器在关联新特色图之前调用，保证“同一实体至多一张特色图”不变量
	//   在本次调用的事务内成立。
	SoftDeleteSupersededPrimary(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64, keepIDs []uint64) error
}

// attachmentRepository 是 AttachmentRepository 接口针对 MySQL 的具体实现。
type attachmentRepository struct {
	db     *gorm.DB        // GORM 数据库实例
	logger *core.ZapLogger // 日志记录器实例
}

// NewAttachmentRepository 是 attachmentRepository 的构造函数。
func NewAttachmentRepository(db *gorm.DB, logger *core.ZapLogger) AttachmentRepository {
	return &attachmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create 实现附件的数据库插入操作。
func (r *attachmentRepository) Create(ctx context.Context, db *gorm.DB, attachment *entities.Attachment) error {
	// GORM 会自动处理 BaseModel 中的 CreatedAt 和 UpdatedAt 字段。
	if err := db.WithContext(ctx).Create(attachment).Error; err != nil {
		return err
	}
	return nil
}

// UpdateFields 按字段映射更新附件，并刷新 updated_at。
func (r *attachmentRepository) UpdateFields(ctx context.Context, db *gorm.DB, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新附件", zap.Uint64("attachmentID", id))
		return nil
	}
	fields["updated_at"] = time.Now()

	result := db.WithContext(ctx).
		Model(&entities.Attachment{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error("更新附件数据库操作失败", zap.Uint64("attachmentID", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 行不存在（或已被硬删除）。协调器依赖这个信号跳过不合格的ID。
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// FindByID 根据 ID 检索未删除的附件。
func (r *attachmentRepository) FindByID(ctx context.Context, id uint64) (*entities.Attachment, error) {
	var attachment entities.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByIDUnscoped 根据 ID 检索附件（包含软删除行）。
func (r *attachmentRepository) FindByIDUnscoped(ctx context.Context, db *gorm.DB, id uint64) (*entities.Attachment, error) {
	var attachment entities.Attachment
	if err := db.WithContext(ctx).Unscoped().First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByObject 检索实体名下全部未删除附件。
func (r *attachmentRepository) FindByObject(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error) {
	var attachments []*entities.Attachment
	err := r.db.WithContext(ctx).
		Where("object_type = ? AND object_id = ?", string(objectType), objectID).
		Order("order_index ASC, id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindGalleryByObject 检索实体的图库附件，按 ID 升序。
func (r *attachmentRepository) FindGalleryByObject(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error) {
	var attachments []*entities.Attachment
	err := r.db.WithContext(ctx).
		Where("object_type = ? AND object_id = ? AND is_primary = ? AND is_content_image = ?",
			string(objectType), objectID, false, false).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindPrimaryByObject 检索实体的特色图附件，按 ID 升序。
func (r *attachmentRepository) FindPrimaryByObject(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error) {
	var attachments []*entities.Attachment
	err := r.db.WithContext(ctx).
		Where("object_type = ? AND object_id = ? AND is_primary = ?", string(objectType), objectID, true).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindTemporaryOlderThan 检索过期的临时附件（分批）。
func (r *attachmentRepository) FindTemporaryOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Attachment, error) {
	var attachments []*entities.Attachment
	query := r.db.WithContext(ctx).
		Where("is_temporary = ? AND created_at < ?", true, cutoff).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// SoftDeleteByIDs 对指定附件集合执行软删除。
func (r *attachmentRepository) SoftDeleteByIDs(ctx context.Context, db *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	result := db.WithContext(ctx).Delete(&entities.Attachment{}, ids)
	if result.Error != nil {
		r.logger.Error("按ID集合软删除附件失败", zap.Uint64s("attachmentIDs", ids), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

// SoftDeleteByObject 对实体名下全部未删除附件执行软删除。
func (r *attachmentRepository) SoftDeleteByObject(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64) error {
	result := db.WithContext(ctx).
		Where("object_type = ? AND object_id = ?", string(objectType), objectID).
		Delete(&entities.Attachment{})
	if result.Error != nil {
		r.logger.Error("按实体软删除附件失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(result.Error))
		return result.Error
	}
	return nil
}

// SoftDeleteSupersededPrimary 软删除实体名下不在保留集合中的特色图行。
func (r *attachmentRepository) SoftDeleteSupersededPrimary(ctx context.Context, db *gorm.DB, objectType entities.ObjectType, objectID uint64, keepIDs []uint64) error {
	query := db.WithContext(ctx).
		Where("object_type = ? AND object_id = ? AND is_primary = ?", string(objectType), objectID, true)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	result := query.Delete(&entities.Attachment{})
	if result.Error != nil {
		r.logger.Error("软删除被替换的特色图失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected > 0 {
		r.logger.Info("已软删除被替换的特色图",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Int64("rows", result.RowsAffected))
	}
	return nil
}

// Restore 恢复一条已软删除的附件行。
func (r *attachmentRepository) Restore(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).
		Unscoped().
		Model(&entities.Attachment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
