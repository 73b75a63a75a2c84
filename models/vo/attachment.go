package vo

import (
	"time"

	"github.com/Xushengqwer/content_service/models/entities"
)

// AttachmentVO 定义了附件的视图对象。
// 上传接口与按实体查询接口共用该结构。
type AttachmentVO struct {
	ID               uint64    `json:"id"`                 // 附件ID
	URL              string    `json:"url"`                // 公开访问 URL
	IsTemporary      bool      `json:"is_temporary"`       // 是否为临时附件
	IsPrimary        bool      `json:"is_primary"`         // 是否为特色图
	IsContentImage   bool      `json:"is_content_image"`   // 是否为正文内嵌图
	OriginalFileName string    `json:"file_name"`          // 原始文件名
	FileSize         int64     `json:"file_size"`          // 文件大小（字节）
	ContentType      string    `json:"content_type"`       // MIME 类型
	OrderIndex       int       `json:"order_index"`        // 图库展示顺序
	CreatedAt        time.Time `json:"created_at"`         // 创建时间
}

// NewAttachmentVOFromEntity 将单个 Attachment 实体转换为 AttachmentVO。
func NewAttachmentVOFromEntity(entity *entities.Attachment) AttachmentVO {
	if entity == nil {
		return AttachmentVO{}
	}
	return AttachmentVO{
		ID:               entity.ID,
		URL:              entity.PublicURL,
		IsTemporary:      entity.IsTemporary,
		IsPrimary:        entity.IsPrimary,
		IsContentImage:   entity.IsContentImage,
		OriginalFileName: entity.OriginalFileName,
		FileSize:         entity.FileSize,
		ContentType:      entity.ContentType,
		OrderIndex:       entity.OrderIndex,
		CreatedAt:        entity.CreatedAt,
	}
}

// NewAttachmentVOsFromEntities 批量转换附件实体列表。
func NewAttachmentVOsFromEntities(list []*entities.Attachment) []AttachmentVO {
	vos := make([]AttachmentVO, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		vos = append(vos, NewAttachmentVOFromEntity(item))
	}
	return vos
}
