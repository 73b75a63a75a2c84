package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/models/vo"
	"github.com/Xushengqwer/content_service/mq/producer"
	"github.com/Xushengqwer/content_service/repo/mysql"
)

// NewsService 定义了新闻管理的业务接口。
// 新闻是附件关联协调的第一个宿主实体：创建/更新请求携带“期望的附件终态”，
// 服务在完成新闻自身的写入后，把附件整理委托给关联协调器。
type NewsService interface {
	// CreateNews 创建新闻并按请求声明的期望状态关联附件。
	CreateNews(ctx context.Context, req *dto.CreateNewsRequest) (*vo.NewsDetailVO, error)

	// UpdateNews 更新新闻并整理其附件集合。
	// - 附件期望状态与当前一致时，附件侧为无操作（重复提交安全）。
	UpdateNews(ctx context.Context, newsID uint64, req *dto.UpdateNewsRequest) (*vo.NewsDetailVO, error)

	// DeleteNews 软删除新闻，并把删除传播到其名下全部附件。
	DeleteNews(ctx context.Context, newsID uint64, actorID string) error

	// GetNewsByID 获取新闻详情（含图库与正文内嵌图附件）。
	GetNewsByID(ctx context.Context, newsID uint64) (*vo.NewsDetailVO, error)
}

// newsService 是 NewsService 接口的具体实现。
type newsService struct {
	newsRepo       mysql.NewsRepository       // 新闻的 MySQL 操作
	attachmentRepo mysql.AttachmentRepository // 附件查询（组装详情 VO）
	associationSvc AssociationService         // 附件关联协调器
	kafkaProducer  *producer.KafkaProducer    // 事件生产者
	db             *gorm.DB                   // GORM 数据库实例
	logger         *core.ZapLogger            // 日志记录器
}

// NewNewsService 是 newsService 的构造函数。
func NewNewsService(
	db *gorm.DB,
	newsRepo mysql.NewsRepository,
	attachmentRepo mysql.AttachmentRepository,
	associationSvc AssociationService,
	kafkaProducer *producer.KafkaProducer,
	logger *core.ZapLogger,
) NewsService {
	return &newsService{
		newsRepo:       newsRepo,
		attachmentRepo: attachmentRepo,
		associationSvc: associationSvc,
		kafkaProducer:  kafkaProducer,
		db:             db,
		logger:         logger,
	}
}

// CreateNews 创建新闻并关联附件。
func (s *newsService) CreateNews(ctx context.Context, req *dto.CreateNewsRequest) (*vo.NewsDetailVO, error) {
	news := &entities.News{
		TitleVi:    req.TitleVi,
		TitleEn:    req.TitleEn,
		Slug:       req.Slug,
		ContentVi:  req.ContentVi,
		ContentEn:  req.ContentEn,
		CreatedBy:  req.ActorID,
		ModifiedBy: req.ActorID,
	}
	if err := s.newsRepo.CreateNews(ctx, s.db, news); err != nil {
		s.logger.Error("创建新闻失败", zap.String("slug", req.Slug), zap.Error(err))
		return nil, fmt.Errorf("创建新闻失败: %w", err)
	}

	// 新闻行已落库，附件整理需要新闻ID，只能发生在创建之后。
	// 整理失败时新闻仍然存在（没有附件），错误上抛由客户端重试更新。
	if err := s.associationSvc.ReconcileOnUpdate(
		ctx,
		entities.ObjectTypeNews,
		news.ID,
		req.GalleryAttachmentIDs,
		req.FeaturedAttachmentID,
		[]string{req.ContentVi, req.ContentEn},
		req.ActorID,
	); err != nil {
		s.logger.Error("创建新闻后整理附件失败，新闻已创建但附件未就绪",
			zap.Uint64("newsID", news.ID),
			zap.Error(err))
		return nil, fmt.Errorf("新闻 %d 的附件整理失败: %w", news.ID, err)
	}

	// 事件发送是尽力而为：失败只记录，不回滚业务写入。
	if err := s.kafkaProducer.SendNewsChangedEvent(ctx, news.ID, "created"); err != nil {
		s.logger.Warn("发送新闻创建事件失败", zap.Uint64("newsID", news.ID), zap.Error(err))
	}

	return s.GetNewsByID(ctx, news.ID)
}

// UpdateNews 更新新闻并整理其附件集合。
func (s *newsService) UpdateNews(ctx context.Context, newsID uint64, req *dto.UpdateNewsRequest) (*vo.NewsDetailVO, error) {
	fields := map[string]interface{}{
		"title_vi":    req.TitleVi,
		"title_en":    req.TitleEn,
		"content_vi":  req.ContentVi,
		"content_en":  req.ContentEn,
		"modified_by": req.ActorID,
	}
	if err := s.newsRepo.UpdateNews(ctx, s.db, newsID, fields); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("尝试更新不存在的新闻", zap.Uint64("newsID", newsID))
			return nil, err
		}
		s.logger.Error("更新新闻失败", zap.Uint64("newsID", newsID), zap.Error(err))
		return nil, fmt.Errorf("更新新闻 %d 失败: %w", newsID, err)
	}

	if err := s.associationSvc.ReconcileOnUpdate(
		ctx,
		entities.ObjectTypeNews,
		newsID,
		req.GalleryAttachmentIDs,
		req.FeaturedAttachmentID,
		[]string{req.ContentVi, req.ContentEn},
		req.ActorID,
	); err != nil {
		s.logger.Error("更新新闻后整理附件失败",
			zap.Uint64("newsID", newsID),
			zap.Error(err))
		return nil, fmt.Errorf("新闻 %d 的附件整理失败: %w", newsID, err)
	}

	if err := s.kafkaProducer.SendNewsChangedEvent(ctx, newsID, "updated"); err != nil {
		s.logger.Warn("发送新闻更新事件失败", zap.Uint64("newsID", newsID), zap.Error(err))
	}

	return s.GetNewsByID(ctx, newsID)
}

// DeleteNews 软删除新闻并传播到附件。
func (s *newsService) DeleteNews(ctx context.Context, newsID uint64, actorID string) error {
	if err := s.newsRepo.DeleteNews(ctx, s.db, newsID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("尝试删除不存在的新闻", zap.Uint64("newsID", newsID))
			return err
		}
		s.logger.Error("删除新闻失败", zap.Uint64("newsID", newsID), zap.Error(err))
		return fmt.Errorf("删除新闻 %d 失败: %w", newsID, err)
	}

	// 删除传播：新闻名下全部附件软删除，物理文件保留以备审计。
	if err := s.associationSvc.SoftDeleteEntityAttachments(ctx, entities.ObjectTypeNews, newsID); err != nil {
		// 新闻行已删除而附件传播失败：兄弟服务的删除事件重放可以兜底，
		// 这里只告警不回滚。
		s.logger.Error("删除新闻后传播附件软删除失败",
			zap.Uint64("newsID", newsID),
			zap.String("actorID", actorID),
			zap.Error(err))
	}

	if err := s.kafkaProducer.SendNewsDeletedEvent(ctx, newsID); err != nil {
		s.logger.Warn("发送新闻删除事件失败", zap.Uint64("newsID", newsID), zap.Error(err))
	}

	s.logger.Info("新闻已删除", zap.Uint64("newsID", newsID), zap.String("actorID", actorID))
	return nil
}

// GetNewsByID 获取新闻详情。
func (s *newsService) GetNewsByID(ctx context.Context, newsID uint64) (*vo.NewsDetailVO, error) {
	news, err := s.newsRepo.GetNewsByID(ctx, newsID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("尝试获取不存在的新闻", zap.Uint64("newsID", newsID))
		} else {
			s.logger.Error("获取新闻失败", zap.Uint64("newsID", newsID), zap.Error(err))
		}
		return nil, err
	}

	attachments, err := s.attachmentRepo.FindByObject(ctx, entities.ObjectTypeNews, newsID)
	if err != nil {
		s.logger.Error("获取新闻附件失败", zap.Uint64("newsID", newsID), zap.Error(err))
		return nil, err
	}

	return vo.NewNewsDetailVOFromEntity(news, attachments), nil
}
