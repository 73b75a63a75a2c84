package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/dependencies"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/vo"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/repo/mysql"
)

// AttachmentService 定义了附件生命周期管理的接口。
// 负责临时上传、晋升为永久（仅供关联协调器调用）、以及过期临时附件的清理。
type AttachmentService interface {
	// UploadTemporary 处理一个文件的临时上传。
	// - 先写 COS（临时前缀 + 随机对象键，绝不信任原始文件名作为存储键），
	//   再写元数据行；如果行写入失败，COS 里的对象成为可接受的孤立文件。
	//   顺序绝不可颠倒：元数据先落库而对象不存在是不可接受的状态。
	// - 返回新附件的ID与公开访问 URL。
	UploadTemporary(ctx context.Context, fileHeader *multipart.FileHeader, relationType string, actorID string) (*vo.AttachmentVO, error)

	// GetByID 获取单个附件。
	// - 附件不存在或已删除时返回 commonerrors.ErrRepoNotFound（单 ID 操作里这是致命错误，直接上抛）。
	GetByID(ctx context.Context, id uint64) (*vo.AttachmentVO, error)

	// ListByEntity 获取实体名下全部未删除附件，按展示顺序排列。
	ListByEntity(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]vo.AttachmentVO, error)

	// PromoteToPermanent 将一个临时附件晋升为永久（由关联协调器在事务内调用）。
	// - 幂等：已是永久的附件直接返回 nil。
	// - 目标键按内容类别 + 年月分区确定性生成；COS 复制校验成功前绝不更新元数据。
	// - 源文件已不存在时视为“早前移动已完成”，降级为仅更新元数据，并以显著的警告日志标记
	//   （该容忍可能掩盖真实的数据丢失，必须可被告警系统识别）。
	PromoteToPermanent(ctx context.Context, db *gorm.DB, attachment *entities.Attachment) error

	// ExpireStaleTemporary 清理创建时间早于保留窗口的临时附件。
	// - 对每条：尽力删除 COS 对象（失败只记录，不阻塞），然后软删除行。
	// - 返回本轮清理的附件ID集合。
	// - 只处理早于窗口的行，因此与并发的上传/关联天然无竞争
	//   （除非关联耗时超过窗口本身，那属于配置错误）。
	ExpireStaleTemporary(ctx context.Context, retention time.Duration, batchSize int) ([]uint64, error)
}

// attachmentService 是 AttachmentService 接口的具体实现。
type attachmentService struct {
	attachmentRepo mysql.AttachmentRepository      // 附件的 MySQL 操作
	cosClient      dependencies.COSClientInterface // COS 云存储依赖
	db             *gorm.DB                        // GORM 数据库实例
	logger         *core.ZapLogger                 // 日志记录器
}

// NewAttachmentService 是 attachmentService 的构造函数，通过依赖注入初始化服务实例。
func NewAttachmentService(db *gorm.DB, attachmentRepo mysql.AttachmentRepository, cosClient dependencies.COSClientInterface, logger *core.ZapLogger) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		cosClient:      cosClient,
		db:             db,
		logger:         logger,
	}
}

// generateTempObjectKey 为临时上传生成唯一的 COS 对象键。
// 规则: uploads/tmp/{relationType}/{YYYYMMDD}/{uuid}{ext}
// 原始文件名只保留扩展名，其余部分一律不进入存储键。
func (s *attachmentService) generateTempObjectKey(originalFilename string, relationType string) string {
	datePrefix := time.Now().Format("20060102")
	extension := strings.ToLower(filepath.Ext(originalFilename))
	if relationType == "" {
		relationType = "file"
	}
	return fmt.Sprintf("%s%s/%s/%s%s",
		constant.COSObjectKeyPrefixTemp,
		relationType,
		datePrefix,
		uuid.NewString(),
		extension,
	)
}

// permanentObjectKey 为晋升生成确定性的永久对象键。
// 规则: uploads/{category}/{yyyy}/{mm}/{attachmentID}{ext}
// 键由附件自身的ID决定，同一附件无论重试多少次都指向同一目标，保证晋升可安全重放。
func (s *attachmentService) permanentObjectKey(attachment *entities.Attachment) string {
	now := time.Now()
	extension := strings.ToLower(filepath.Ext(attachment.StoragePath))
	return fmt.Sprintf("%s%s/%04d/%02d/%d%s",
		constant.COSObjectKeyPrefixPermanent,
		categoryForAttachment(attachment),
		now.Year(),
		int(now.Month()),
		attachment.ID,
		extension,
	)
}

// categoryForAttachment 从 MIME 类型推导内容类别，推导不出时回退到声明的 relationType。
func categoryForAttachment(attachment *entities.Attachment) string {
	switch {
	case strings.HasPrefix(attachment.ContentType, "image/"):
		return "images"
	case strings.HasPrefix(attachment.ContentType, "video/"):
		return "videos"
	case attachment.RelationType != "":
		return attachment.RelationType + "s"
	default:
		return "files"
	}
}

// UploadTemporary 实现临时上传：先 COS，后元数据。
func (s *attachmentService) UploadTemporary(ctx context.Context, fileHeader *multipart.FileHeader, relationType string, actorID string) (*vo.AttachmentVO, error) {
	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("打开上传文件失败",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		return nil, fmt.Errorf("打开上传文件 %s 失败: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
		s.logger.Warn("未提供上传文件的内容类型，使用默认值",
			zap.String("filename", fileHeader.Filename),
			zap.String("defaultContentType", contentType))
	}

	objectKey := s.generateTempObjectKey(fileHeader.Filename, relationType)

	// 1. 先写 COS。
	publicURL, err := s.cosClient.UploadFile(ctx, objectKey, file, fileHeader.Size, contentType)
	if err != nil {
		s.logger.Error("上传文件到 COS 失败",
			zap.String("filename", fileHeader.Filename),
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return nil, fmt.Errorf("上传文件 %s 到 COS 失败: %w", fileHeader.Filename, err)
	}

	// 2. 再写元数据行（临时状态，不绑定任何实体）。
	attachment := &entities.Attachment{
		StoragePath:      objectKey,
		PublicURL:        publicURL,
		OriginalFileName: fileHeader.Filename,
		FileSize:         fileHeader.Size,
		ContentType:      contentType,
		RelationType:     relationType,
		IsTemporary:      true,
		CreatedBy:        actorID,
		ModifiedBy:       actorID,
	}
	if repoErr := s.attachmentRepo.Create(ctx, s.db, attachment); repoErr != nil {
		// COS 对象已落盘而行写入失败：孤立对象可接受，记录后留给人工/清扫兜底。
		s.logger.Warn("附件元数据写入失败，COS 对象成为孤立文件",
			zap.String("objectKey", objectKey),
			zap.Error(repoErr))
		return nil, fmt.Errorf("创建附件记录失败: %w", repoErr)
	}

	s.logger.Info("临时附件上传成功",
		zap.Uint64("attachmentID", attachment.ID),
		zap.String("objectKey", objectKey),
		zap.String("publicURL", publicURL))

	result := vo.NewAttachmentVOFromEntity(attachment)
	return &result, nil
}

// GetByID 获取单个附件。
func (s *attachmentService) GetByID(ctx context.Context, id uint64) (*vo.AttachmentVO, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("尝试获取不存在的附件", zap.Uint64("attachmentID", id))
		} else {
			s.logger.Error("获取附件失败", zap.Uint64("attachmentID", id), zap.Error(err))
		}
		return nil, err
	}
	result := vo.NewAttachmentVOFromEntity(attachment)
	return &result, nil
}

// ListByEntity 获取实体名下全部未删除附件。
func (s *attachmentService) ListByEntity(ctx context.Context, objectType entities.ObjectType, objectID uint64) ([]vo.AttachmentVO, error) {
	attachments, err := s.attachmentRepo.FindByObject(ctx, objectType, objectID)
	if err != nil {
		s.logger.Error("按实体获取附件列表失败",
			zap.String("objectType", string(objectType)),
			zap.Uint64("objectID", objectID),
			zap.Error(err))
		return nil, err
	}
	return vo.NewAttachmentVOsFromEntities(attachments), nil
}

// PromoteToPermanent 将临时附件晋升为永久。
func (s *attachmentService) PromoteToPermanent(ctx context.Context, db *gorm.DB, attachment *entities.Attachment) error {
	// 幂等：已是永久状态直接返回。
	if !attachment.IsTemporary {
		return nil
	}
	// 防御：临时附件的存储路径必须位于临时前缀下。
	if !strings.HasPrefix(attachment.StoragePath, constant.COSObjectKeyPrefixTemp) {
		s.logger.Error("临时附件的存储路径不在临时前缀下，拒绝晋升",
			zap.Uint64("attachmentID", attachment.ID),
			zap.String("storagePath", attachment.StoragePath))
		return fmt.Errorf("附件 %d 的存储路径异常: %s", attachment.ID, attachment.StoragePath)
	}

	dstKey := s.permanentObjectKey(attachment)

	srcExists, err := s.cosClient.ObjectExists(ctx, attachment.StoragePath)
	if err != nil {
		return fmt.Errorf("检查附件 %d 源文件失败: %w", attachment.ID, err)
	}

	if srcExists {
		// 复制 -> 校验 -> 删源；瞬时失败做有限次重试，持续失败上抛让整个关联事务回滚。
		var moveErr error
		for attempt := 1; attempt <= constant.PromoteMaxRetries; attempt++ {
			moveErr = s.cosClient.MoveObject(ctx, attachment.StoragePath, dstKey)
			if moveErr == nil {
				break
			}
			s.logger.Warn("晋升附件时移动 COS 对象失败，准备重试",
				zap.Uint64("attachmentID", attachment.ID),
				zap.Int("attempt", attempt),
				zap.Error(moveErr))
		}
		if moveErr != nil {
			s.logger.Error("晋升附件时移动 COS 对象持续失败，中止关联",
				zap.Uint64("attachmentID", attachment.ID),
				zap.String("srcKey", attachment.StoragePath),
				zap.String("dstKey", dstKey),
				zap.Error(moveErr))
			return fmt.Errorf("%w: 移动附件 %d 失败: %v", myErrors.ErrStorageFailure, attachment.ID, moveErr)
		}
	} else {
		// 源文件缺失：按“早前移动已完成”处理，只更新元数据。
		// 这个容忍是为了让晋升可安全重放，但也可能掩盖真实的数据丢失，
		// 因此用专门的告警消息记录，而不是静默成功。
		s.logger.Warn("晋升附件时源文件已不存在，按已移动处理（请核查是否存在数据丢失）",
			zap.Uint64("attachmentID", attachment.ID),
			zap.String("srcKey", attachment.StoragePath),
			zap.String("dstKey", dstKey))
	}

	// 复制校验通过后才允许更新元数据。
	fields := map[string]interface{}{
		"storage_path": dstKey,
		"public_url":   s.cosClient.BuildPublicURL(dstKey),
		"is_temporary": false,
	}
	if err := s.attachmentRepo.UpdateFields(ctx, db, attachment.ID, fields); err != nil {
		return fmt.Errorf("更新附件 %d 晋升元数据失败: %w", attachment.ID, err)
	}

	attachment.StoragePath = dstKey
	attachment.PublicURL = s.cosClient.BuildPublicURL(dstKey)
	attachment.IsTemporary = false

	s.logger.Info("附件已晋升为永久",
		zap.Uint64("attachmentID", attachment.ID),
		zap.String("dstKey", dstKey))
	return nil
}

// ExpireStaleTemporary 清理过期的临时附件。
func (s *attachmentService) ExpireStaleTemporary(ctx context.Context, retention time.Duration, batchSize int) ([]uint64, error) {
	cutoff := time.Now().Add(-retention)
	expiredIDs := make([]uint64, 0)

	for {
		batch, err := s.attachmentRepo.FindTemporaryOlderThan(ctx, cutoff, batchSize)
		if err != nil {
			s.logger.Error("查询过期临时附件失败", zap.Error(err))
			return expiredIDs, err
		}
		if len(batch) == 0 {
			break
		}

		batchIDs := make([]uint64, 0, len(batch))
		for _, attachment := range batch {
			// 物理删除是尽力而为：失败只记录，不阻塞行的软删除。
			if delErr := s.cosClient.DeleteObject(ctx, attachment.StoragePath); delErr != nil {
				s.logger.Warn("清扫时删除 COS 对象失败，行仍将标记删除",
					zap.Uint64("attachmentID", attachment.ID),
					zap.String("objectKey", attachment.StoragePath),
					zap.Error(delErr))
			}
			batchIDs = append(batchIDs, attachment.ID)
		}

		if err := s.attachmentRepo.SoftDeleteByIDs(ctx, s.db, batchIDs); err != nil {
			s.logger.Error("软删除过期临时附件失败", zap.Uint64s("attachmentIDs", batchIDs), zap.Error(err))
			return expiredIDs, err
		}
		expiredIDs = append(expiredIDs, batchIDs...)

		if len(batch) < batchSize {
			break
		}
	}

	if len(expiredIDs) > 0 {
		s.logger.Info("过期临时附件清理完成", zap.Int("count", len(expiredIDs)))
	}
	return expiredIDs, nil
}
