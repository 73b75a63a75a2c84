package dto

// CreateNewsRequest 定义了创建新闻的请求数据结构
// - 图片不随本请求上传：客户端先通过附件上传接口取得临时附件ID，
//   再在这里以 ID 集合的形式声明期望的图库/特色图。
type CreateNewsRequest struct {
	TitleVi   string `json:"title_vi" binding:"required,max=255"` // 越南语标题，必填
	TitleEn   string `json:"title_en" binding:"omitempty,max=255"`
	Slug      string `json:"slug" binding:"required,max=255"` // URL 别名，必填
	ContentVi string `json:"content_vi" binding:"omitempty"`  // 越南语富文本正文
	ContentEn string `json:"content_en" binding:"omitempty"`  // 英语富文本正文

	GalleryAttachmentIDs []uint64 `json:"gallery_attachment_ids" binding:"omitempty,dive,gt=0"` // 期望的图库附件ID集合
	FeaturedAttachmentID *uint64  `json:"featured_attachment_id" binding:"omitempty"`           // 期望的特色图附件ID，可选

	ActorID string `json:"actor_id" binding:"omitempty,max=36"` // 操作者ID（审计）
}

// UpdateNewsRequest 定义了更新新闻的请求数据结构
// - 附件字段表达的是“期望终态”：协调器会与当前关联集合比对，
//   完全一致时不产生任何附件写操作（幂等）。
type UpdateNewsRequest struct {
	TitleVi   string `json:"title_vi" binding:"required,max=255"`
	TitleEn   string `json:"title_en" binding:"omitempty,max=255"`
	ContentVi string `json:"content_vi" binding:"omitempty"`
	ContentEn string `json:"content_en" binding:"omitempty"`

	GalleryAttachmentIDs []uint64 `json:"gallery_attachment_ids" binding:"omitempty,dive,gt=0"`
	FeaturedAttachmentID *uint64  `json:"featured_attachment_id" binding:"omitempty"`

	ActorID string `json:"actor_id" binding:"omitempty,max=36"`
}
