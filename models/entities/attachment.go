package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"
)

// ObjectType 标识附件所归属的业务实体类型。
// - 存储为 varchar，便于跨服务传递（Kafka 事件里直接使用字符串值）。
type ObjectType string

const (
	ObjectTypeNews         ObjectType = "news"
	ObjectTypeNotification ObjectType = "notification"
	ObjectTypeProduct      ObjectType = "product"
	ObjectTypeService      ObjectType = "service"
)

// Valid 判断是否为已知的实体类型。
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypeNews, ObjectTypeNotification, ObjectTypeProduct, ObjectTypeService:
		return true
	}
	return false
}

// Attachment 附件实体
//   - 使用场景: 记录每一个上传文件的元数据及其与业务实体的关联状态。
//     附件以“临时”状态创建（ObjectType/ObjectID 为 NULL），由关联协调器晋升为永久并绑定实体。
//   - 表名: attachments (GORM 默认使用蛇形复数形式)
//   - 不变量:
//     1. 同一 (object_type, object_id) 下，未删除行中 is_primary = true 的至多一条（特色图唯一）。
//     2. is_temporary = true 时 object_type / object_id 必须为 NULL。
type Attachment struct {
	entities.BaseModel // 嵌入自定义的 BaseModel, 包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 附件在 COS 中的对象键（临时前缀或永久前缀下）
	// - GORM 标签: not null；加索引以便清扫任务按路径排查孤立文件。
	StoragePath string `gorm:"type:varchar(512);not null;index"`

	// 对象的公开访问 URL，由存储路径派生，冗余存储以免读路径重复拼接。
	PublicURL string `gorm:"type:varchar(1023);not null"`

	// 上传时的原始文件名，仅用于展示与下载命名，绝不作为存储键使用。
	OriginalFileName string `gorm:"type:varchar(255);not null"`

	// 文件大小（字节）
	FileSize int64 `gorm:"not null;default:0"`

	// MIME 类型，例如 "image/jpeg"
	ContentType string `gorm:"type:varchar(100);not null"`

	// 归属实体类型，临时附件为 NULL
	// - 与 ObjectID 构成联合索引，服务按实体查询附件集合。
	ObjectType sql.NullString `gorm:"type:varchar(32);index:idx_attachments_object"`

	// 归属实体ID，临时附件为 NULL
	ObjectID sql.NullInt64 `gorm:"index:idx_attachments_object"`

	// 关系类型提示（如 "image"、"document"），主要用于临时目录的初始路由。
	RelationType string `gorm:"type:varchar(32);not null;default:'image'"`

	// 是否为临时附件（尚未与实体关联）
	// - 加索引：清扫任务按 is_temporary + created_at 扫描过期行。
	IsTemporary bool `gorm:"not null;default:true;index"`

	// 是否为特色图（同一实体下未删除行中至多一条为 true）
	IsPrimary bool `gorm:"not null;default:false"`

	// 是否为正文内嵌图（从富文本 body 中引用，而非图库展示）
	IsContentImage bool `gorm:"not null;default:false"`

	// 图库展示顺序
	OrderIndex int `gorm:"not null;default:0"`

	// 审计字段：操作者ID 由调用方显式传入，不从请求环境隐式获取。
	CreatedBy  string `gorm:"type:char(36)"`
	ModifiedBy string `gorm:"type:char(36)"`
}

// BoundTo 判断附件是否已绑定到指定实体。
func (a *Attachment) BoundTo(objectType ObjectType, objectID uint64) bool {
	return a.ObjectType.Valid && a.ObjectType.String == string(objectType) &&
		a.ObjectID.Valid && a.ObjectID.Int64 == int64(objectID)
}
