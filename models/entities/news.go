package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"
)

// News 新闻实体
// - 使用场景: 内容管理后台的新闻条目，双语正文（Vi/En），富文本内容中可内嵌附件图片。
// - 表名: news (显式指定，避免 GORM 复数化为 newses)
// - 冗余设计: ImageURL / FeaturedImageID 是特色图的非规范化快照，
//   由关联协调器在特色图变更时回写，使列表读路径无需 join attachments 表。
type News struct {
	entities.BaseModel // 嵌入自定义的 BaseModel, 包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 越南语标题，必填
	TitleVi string `gorm:"type:varchar(255);not null"`

	// 英语标题，可为空（未翻译时）
	TitleEn string `gorm:"type:varchar(255)"`

	// URL 别名，唯一
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex"`

	// 越南语正文，富文本 HTML，内嵌图片以 data-attachment-id 标记
	ContentVi string `gorm:"type:text"`

	// 英语正文，富文本 HTML
	ContentEn string `gorm:"type:text"`

	// 特色图公开 URL（非规范化快照，无特色图时为空字符串）
	ImageURL string `gorm:"type:varchar(1023);not null;default:''"`

	// 特色图附件ID（非规范化快照，无特色图时为 NULL）
	FeaturedImageID sql.NullInt64

	// 审计字段：操作者ID 由调用方显式传入
	CreatedBy  string `gorm:"type:char(36)"`
	ModifiedBy string `gorm:"type:char(36)"`
}

// TableName 显式指定表名。
func (News) TableName() string {
	return "news"
}
