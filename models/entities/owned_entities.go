package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"
)

// 本文件定义除 News 外其余可持有附件的业务实体。
// 它们的完整 CRUD 由各自的管理后台模块负责，不在本服务范围内；
// 这里只落地附件引擎需要触达的部分：主键、软删除，以及特色图的非规范化字段
// （image_url / featured_image_id，由关联协调器回写）。

// Notification 通知实体（仅附件引擎触达的字段）
type Notification struct {
	entities.BaseModel

	Title           string `gorm:"type:varchar(255);not null"`
	ImageURL        string `gorm:"type:varchar(1023);not null;default:''"`
	FeaturedImageID sql.NullInt64
}

// Product 产品实体（仅附件引擎触达的字段）
type Product struct {
	entities.BaseModel

	Name            string `gorm:"type:varchar(255);not null"`
	ImageURL        string `gorm:"type:varchar(1023);not null;default:''"`
	FeaturedImageID sql.NullInt64
}

// ServiceItem 服务项目实体（仅附件引擎触达的字段）
// - 命名为 ServiceItem 避免与 Go 语境下的 "service" 层混淆，表名仍为 services。
type ServiceItem struct {
	entities.BaseModel

	Name            string `gorm:"type:varchar(255);not null"`
	ImageURL        string `gorm:"type:varchar(1023);not null;default:''"`
	FeaturedImageID sql.NullInt64
}

// TableName 显式指定表名。
func (ServiceItem) TableName() string {
	return "services"
}
