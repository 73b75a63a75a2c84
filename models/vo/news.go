package vo

import (
	"database/sql"
	"time"

	"github.com/Xushengqwer/content_service/models/entities"
)

// NewsDetailVO 定义了新闻详情的完整视图对象。
// 它聚合了 News 实体与其附件集合（图库 + 特色图 + 正文内嵌图）的信息。
type NewsDetailVO struct {
	ID        uint64    `json:"id"`         // 新闻ID
	CreatedAt time.Time `json:"created_at"` // 创建时间
	UpdatedAt time.Time `json:"updated_at"` // 更新时间

	TitleVi   string `json:"title_vi"`
	TitleEn   string `json:"title_en"`
	Slug      string `json:"slug"`
	ContentVi string `json:"content_vi"`
	ContentEn string `json:"content_en"`

	// 特色图非规范化字段：列表/详情读路径无需 join attachments 表。
	ImageURL        string  `json:"image_url"`                   // 特色图 URL，无特色图时为空字符串
	FeaturedImageID *uint64 `json:"featured_image_id,omitempty"` // 特色图附件ID，无特色图时省略

	// Gallery 为图库附件（非特色、非正文内嵌），已按展示顺序排序。
	Gallery []AttachmentVO `json:"gallery"`
	// ContentImages 为正文内嵌图附件。
	ContentImages []AttachmentVO `json:"content_images"`
}

// NewNewsDetailVOFromEntity 将 News 实体与附件列表组装为详情 VO。
// attachments 应为该新闻当前未删除的全部附件。
func NewNewsDetailVOFromEntity(news *entities.News, attachments []*entities.Attachment) *NewsDetailVO {
	if news == nil {
		return nil
	}
	detail := &NewsDetailVO{
		ID:              news.ID,
		CreatedAt:       news.CreatedAt,
		UpdatedAt:       news.UpdatedAt,
		TitleVi:         news.TitleVi,
		TitleEn:         news.TitleEn,
		Slug:            news.Slug,
		ContentVi:       news.ContentVi,
		ContentEn:       news.ContentEn,
		ImageURL:        news.ImageURL,
		FeaturedImageID: nullInt64ToPtr(news.FeaturedImageID),
		Gallery:         make([]AttachmentVO, 0, len(attachments)),
		ContentImages:   make([]AttachmentVO, 0),
	}
	for _, att := range attachments {
		if att == nil {
			continue
		}
		switch {
		case att.IsContentImage:
			detail.ContentImages = append(detail.ContentImages, NewAttachmentVOFromEntity(att))
		case att.IsPrimary:
			// 特色图已通过 ImageURL / FeaturedImageID 表达，不重复进入图库。
		default:
			detail.Gallery = append(detail.Gallery, NewAttachmentVOFromEntity(att))
		}
	}
	return detail
}

func nullInt64ToPtr(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	u := uint64(v.Int64)
	return &u
}
