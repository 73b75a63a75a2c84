package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
)

// AssociationService 定义了附件与业务实体之间关联关系的协调接口。
// 这是附件生命周期的“权威写入口”：所有把附件绑定到实体、或按期望状态
// 整理实体附件集合的操作都经过这里，以保证两条不变量：
//   - 同一实体的未删除附件中至多一条 is_primary = true；
//   - 附件一旦绑定实体即为永久状态（存储路径在永久前缀下）。
type AssociationService interface {
	// Associate 把一批附件关联到指定实体，并按标志打上角色。
	// - 逐个处理：不合格的ID（不存在、已绑定到其他实体）跳过并告警，不中断其余ID。
	// - isFeatured 为 true 时，先软删除实体名下被替换的旧特色图，再晋升新图，
	//   且只有第一个合格的ID会成为特色图（多余的ID降级为图库图并告警）。
	// - 关联成功的特色图会同步回写实体的 image_url / featured_image_id 快照字段。
	// - 返回值表示是否至少有一个附件被成功关联。
	Associate(ctx context.Context, attachmentIDs []uint64, objectType entities.ObjectType, objectID uint64, isFeatured bool, isContentImage bool, actorID string) (bool, error)

	// ReconcileOnUpdate 按“期望状态”整理实体的附件集合（实体更新时调用）。
	// - 期望状态 = 期望图库ID集合 + 期望特色图ID + 富文本 bodies 中内嵌引用的附件ID。
	// - 与当前状态完全一致时为无操作（幂等：相同输入重复调用不产生任何写）。
	// - 有差异时采用“整体重置后重建”：事务内先软删除实体名下全部附件，
	//   再按期望状态逐类重新关联（正文图 -> 图库图 -> 特色图）。
	//   本次重置中被软删除、且仍在期望集合里的行会被恢复并重新打标，不会丢失。
	ReconcileOnUpdate(ctx context.Context, objectType entities.ObjectType, objectID uint64, desiredGalleryIDs []uint64, desiredFeaturedID *uint64, bodies []string, actorID string) error

	// GetCurrentGalleryIDs 返回实体当前图库附件的ID集合（升序），供调用方比对期望状态。
	GetCurrentGalleryIDs(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]uint64, error)

	// GetCurrentFeaturedID 返回实体当前特色图的附件ID，没有则返回 nil。
	// - 脏数据出现多条特色图时取ID最小的一条，并以不变量违例级别告警。
	GetCurrentFeaturedID(ctx context.Context, objectType entities.ObjectType, objectID uint64) (*uint64, error)

	// SoftDeleteEntityAttachments 软删除实体名下全部附件并清空实体的特色图快照字段。
	// - 实体被删除（本服务或兄弟服务的删除事件）时的传播入口。
	// - 物理文件保留在 COS 中以备审计，不在此处删除。
	SoftDeleteEntityAttachments(ctx context.Context, objectType entities.ObjectType, objectID uint64) error
}

// associationService 是 AssociationService 接口的具体实现。
type associationService struct {
	attachmentRepo  mysql.AttachmentRepository  // 附件的 MySQL 操作
	entityImageRepo mysql.EntityImageRepository // 实体图片快照字段的回写
	attachmentSvc   AttachmentService           // 晋升逻辑（COS 移动 + 元数据更新）
	txManager       mysql.TxManager             // 事务边界
	logger          *core.ZapLogger             // 日志记录器
}

// NewAssociationService 是 associationService 的构造函数。
func NewAssociationService(
	txManager mysql.TxManager,
	attachmentRepo mysql.AttachmentRepository,
	entityImageRepo mysql.EntityImageRepository,
	attachmentSvc AttachmentService,
	logger *core.ZapLogger,
) AssociationService {
	return &associationService{
		attachmentRepo:  attachmentRepo,
		entityImageRepo: entityImageRepo,
		attachmentSvc:   attachmentSvc,
		txManager:       txManager,
		logger:          logger,
	}
}

// Associate 把一批附件关联到指定实体。
func (s *associationService) Associate(ctx context.Context, attachmentIDs []uint64, objectType entities.ObjectType, objectID uint64, isFeatured bool, isContentImage bool, actorID string) (bool, error) {
	if !objectType.Valid() {
		return false, fmt.Errorf("未知的实体类型: %s", objectType)
	}
	if len(attachmentIDs) == 0 {
		return false, nil
	}

	var associated int
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		var txErr error
		associated, txErr = s.associateTx(ctx, tx, attachmentIDs, objectType, objectID, isFeatured, isContentImage, actorID)
		return txErr
	})
	if err != nil {
		s.logger.Error("关联附件事务失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Uint64s("attachmentIDs", attachmentIDs),
			zap.Error(err))
		return false, err
	}
	if associated == 0 {
		s.logger.Warn("没有任何附件满足关联条件",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Uint64s("attachmentIDs", attachmentIDs),
			zap.Error(myErrors.ErrAttachmentNotEligible))
	}
	return associated > 0, nil
}

// associateTx 在给定事务内执行关联，返回成功关联的数量。
// 调用方负责事务边界；这里只负责逐ID的资格判断、晋升与打标。
func (s *associationService) associateTx(ctx context.Context, tx *gorm.DB, attachmentIDs []uint64, objectType entities.ObjectType, objectID uint64, isFeatured bool, isContentImage bool, actorID string) (int, error) {
	// 替换语义：旧特色图的退役必须先于新图的晋升发生，
	// 否则事务中途失败会留下两条特色图。
	if isFeatured {
		if err := s.attachmentRepo.SoftDeleteSupersededPrimary(ctx, tx, objectType, objectID, attachmentIDs); err != nil {
			return 0, err
		}
	}

	associated := 0
	featuredAssigned := false
	for position, id := range dedupeIDs(attachmentIDs) {
		attachment, err := s.attachmentRepo.FindByIDUnscoped(ctx, tx, id)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				// 批量操作里单个ID不存在不是致命错误：跳过并告警，继续处理其余ID。
				s.logger.Warn("待关联的附件不存在，跳过",
					zap.Uint64("attachmentID", id),
					zap.String("objectType", string(objectType)),
					zap.Uint64("objectID", objectID))
				continue
			}
			return associated, err
		}

		switch {
		case attachment.IsTemporary && !attachment.DeletedAt.Valid:
			// 临时附件：晋升为永久后绑定。
			if err := s.attachmentSvc.PromoteToPermanent(ctx, tx, attachment); err != nil {
				return associated, err
			}
		case attachment.BoundTo(objectType, objectID):
			// 已绑定本实体：重新打标即可。本次重置中刚被软删除的行先恢复。
			if attachment.DeletedAt.Valid {
				if err := s.attachmentRepo.Restore(ctx, tx, id); err != nil {
					return associated, err
				}
			}
		default:
			// 绑定到其他实体、或已删除的临时附件：不合格，跳过并告警。
			s.logger.Warn("附件不满足关联资格，跳过",
				zap.Uint64("attachmentID", id),
				zap.Bool("isTemporary", attachment.IsTemporary),
				zap.Bool("deleted", attachment.DeletedAt.Valid),
				zap.String("boundObjectType", attachment.ObjectType.String),
				zap.Int64("boundObjectID", attachment.ObjectID.Int64),
				zap.String("targetObjectType", string(objectType)),
				zap.Uint64("targetObjectID", objectID))
			continue
		}

		primary := isFeatured && !featuredAssigned
		if isFeatured && featuredAssigned {
			// 同一批里出现第二个候选特色图：降级为图库图，保住特色图唯一性。
			s.logger.Warn("同一批关联中出现多个特色图候选，仅保留第一个",
				zap.Uint64("attachmentID", id),
				zap.String("objectType", string(objectType)),
				zap.Uint64("objectID", objectID))
		}

		fields := map[string]interface{}{
			"object_type":      string(objectType),
			"object_id":        objectID,
			"is_primary":       primary,
			"is_content_image": isContentImage,
			"order_index":      position,
			"modified_by":      actorID,
		}
		if err := s.attachmentRepo.UpdateFields(ctx, tx, id, fields); err != nil {
			return associated, err
		}
		associated++

		if primary {
			featuredAssigned = true
			// 特色图关联成功后同步回写实体的快照字段，
			// 列表读路径由此免于 join attachments 表。
			if err := s.entityImageRepo.SetFeaturedImage(ctx, tx, objectType, objectID, attachment.PublicURL, id); err != nil {
				return associated, err
			}
		}
	}
	return associated, nil
}

// ReconcileOnUpdate 按期望状态整理实体的附件集合。
func (s *associationService) ReconcileOnUpdate(ctx context.Context, objectType entities.ObjectType, objectID uint64, desiredGalleryIDs []uint64, desiredFeaturedID *uint64, bodies []string, actorID string) error {
	if !objectType.Valid() {
		return fmt.Errorf("未知的实体类型: %s", objectType)
	}

	contentIDs := ExtractAttachmentIDs(bodies)
	contentIDSet := make(map[uint64]struct{}, len(contentIDs))
	for _, id := range contentIDs {
		contentIDSet[id] = struct{}{}
	}

	// 正文内嵌图的角色优先于图库/特色图：同一个ID同时出现时按正文图处理。
	effectiveGalleryIDs := make([]uint64, 0, len(desiredGalleryIDs))
	for _, id := range dedupeIDs(desiredGalleryIDs) {
		if _, isContent := contentIDSet[id]; isContent {
			continue
		}
		effectiveGalleryIDs = append(effectiveGalleryIDs, id)
	}
	effectiveFeaturedID := desiredFeaturedID
	if desiredFeaturedID != nil {
		if _, isContent := contentIDSet[*desiredFeaturedID]; isContent {
			s.logger.Warn("期望的特色图同时被正文引用，按正文图处理",
				zap.Uint64("attachmentID", *desiredFeaturedID),
				zap.String("objectType", string(objectType)),
				zap.Uint64("objectID", objectID))
			effectiveFeaturedID = nil
		}
	}

	changed, err := s.stateChanged(ctx, objectType, objectID, effectiveGalleryIDs, effectiveFeaturedID, contentIDs)
	if err != nil {
		return err
	}
	if !changed {
		// 期望状态与当前状态一致：无操作。重复提交同一份更新不会产生任何写。
		s.logger.Debug("实体附件集合无变化，跳过整理",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID))
		return nil
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		// 整体重置：实体名下全部附件先软删除，再按期望状态重建。
		// 仍在期望集合里的行会在 associateTx 中被恢复，净效果只动真正变化的行。
		if err := s.attachmentRepo.SoftDeleteByObject(ctx, tx, objectType, objectID); err != nil {
			return err
		}

		if _, err := s.associateTx(ctx, tx, contentIDs, objectType, objectID, false, true, actorID); err != nil {
			return err
		}
		if _, err := s.associateTx(ctx, tx, effectiveGalleryIDs, objectType, objectID, false, false, actorID); err != nil {
			return err
		}

		if effectiveFeaturedID != nil {
			associated, err := s.associateTx(ctx, tx, []uint64{*effectiveFeaturedID}, objectType, objectID, true, false, actorID)
			if err != nil {
				return err
			}
			if associated > 0 {
				return nil
			}
			// 期望的特色图不合格（已绑定他处等）：按“无特色图”收尾。
			s.logger.Warn("期望的特色图关联失败，实体将没有特色图",
				zap.Uint64("attachmentID", *effectiveFeaturedID),
				zap.String("objectType", string(objectType)),
				zap.Uint64("objectID", objectID))
		}
		if err := s.entityImageRepo.ClearFeaturedImage(ctx, tx, objectType, objectID); err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				// 实体行可能由兄弟服务管理或先于附件被删除，清空快照失败不致命。
				s.logger.Warn("清空实体特色图快照字段时未找到实体行",
					zap.String("objectType", string(objectType)),
					zap.Uint64("objectID", objectID))
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error("整理实体附件集合事务失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(err))
		return err
	}

	s.logger.Info("实体附件集合整理完成",
		zap.String("objectType", string(objectType)),
		zap.Uint64("objectID", objectID),
		zap.Int("galleryCount", len(effectiveGalleryIDs)),
		zap.Int("contentImageCount", len(contentIDs)),
		zap.Bool("hasFeatured", effectiveFeaturedID != nil))
	return nil
}

// stateChanged 比对期望状态与当前状态，判断是否需要执行重置后重建。
// 三个触发条件之一成立即视为有变化：
//  1. 期望图库集合 != 当前图库集合（集合比较，顺序无关）；
//  2. 期望特色图 != 当前特色图；
//  3. 正文引用了尚未绑定本实体的临时附件。
func (s *associationService) stateChanged(ctx context.Context, objectType entities.ObjectType, objectID uint64, effectiveGalleryIDs []uint64, effectiveFeaturedID *uint64, contentIDs []uint64) (bool, error) {
	currentGalleryIDs, err := s.GetCurrentGalleryIDs(ctx, objectType, objectID)
	if err != nil {
		return false, err
	}
	if !sameIDSet(effectiveGalleryIDs, currentGalleryIDs) {
		return true, nil
	}

	currentFeaturedID, err := s.GetCurrentFeaturedID(ctx, objectType, objectID)
	if err != nil {
		return false, err
	}
	if (effectiveFeaturedID == nil) != (currentFeaturedID == nil) {
		return true, nil
	}
	if effectiveFeaturedID != nil && *effectiveFeaturedID != *currentFeaturedID {
		return true, nil
	}

	for _, id := range contentIDs {
		attachment, err := s.attachmentRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				// 正文引用了不存在的ID：不构成变化，重建时同样会跳过它。
				continue
			}
			return false, err
		}
		if attachment.IsTemporary {
			return true, nil
		}
	}
	return false, nil
}

// GetCurrentGalleryIDs 返回实体当前图库附件的ID集合（升序）。
func (s *associationService) GetCurrentGalleryIDs(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]uint64, error) {
	attachments, err := s.attachmentRepo.FindGalleryByObject(ctx, objectType, objectID)
	if err != nil {
		s.logger.Error("获取实体图库附件失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(err))
		return nil, err
	}
	ids := make([]uint64, 0, len(attachments))
	for _, attachment := range attachments {
		ids = append(ids, attachment.ID)
	}
	return ids, nil
}

// GetCurrentFeaturedID 返回实体当前特色图的附件ID。
func (s *associationService) GetCurrentFeaturedID(ctx context.Context, objectType entities.ObjectType, objectID uint64) (*uint64, error) {
	primaries, err := s.attachmentRepo.FindPrimaryByObject(ctx, objectType, objectID)
	if err != nil {
		s.logger.Error("获取实体特色图失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(err))
		return nil, err
	}
	if len(primaries) == 0 {
		return nil, nil
	}
	if len(primaries) > 1 {
		// 不变量被破坏的脏数据：取ID最小的一条作为事实上的特色图，
		// 告警留给人工修复，读路径保持确定性。
		ids := make([]uint64, 0, len(primaries))
		for _, p := range primaries {
			ids = append(ids, p.ID)
		}
		s.logger.Error("实体名下存在多条特色图，不变量已被破坏",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Uint64s("primaryIDs", ids),
			zap.Error(myErrors.ErrInvariantViolation))
	}
	id := primaries[0].ID
	return &id, nil
}

// SoftDeleteEntityAttachments 软删除实体名下全部附件并清空快照字段。
func (s *associationService) SoftDeleteEntityAttachments(ctx context.Context, objectType entities.ObjectType, objectID uint64) error {
	if !objectType.Valid() {
		return fmt.Errorf("未知的实体类型: %s", objectType)
	}

	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.attachmentRepo.SoftDeleteByObject(ctx, tx, objectType, objectID); err != nil {
			return err
		}
		if err := s.entityImageRepo.ClearFeaturedImage(ctx, tx, objectType, objectID); err != nil {
			// 实体行通常已先被删除（本服务的删除流程或兄弟服务的删除事件），
			// 快照字段随实体一起消亡，找不到行是预期情况。
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除实体附件传播失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(err))
		return err
	}

	s.logger.Info("实体附件已随实体删除",
		zap.String("objectType", string(objectType)),
		zap.Uint64("objectID", objectID))
	return nil
}

// dedupeIDs 去重并保持首次出现的顺序，同时剔除非法的零值ID。
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// sameIDSet 判断两个ID切片是否表示同一个集合（顺序无关）。
func sameIDSet(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uint64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
