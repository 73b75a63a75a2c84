package dto

// AssociateAttachmentsRequest 定义了将一批临时附件关联到业务实体的请求数据结构
// - 添加了 binding 标签用于输入验证
type AssociateAttachmentsRequest struct {
	AttachmentIDs  []uint64 `json:"attachment_ids" binding:"required,min=1"`                                      // 待关联的附件ID集合，必填
	ObjectType     string   `json:"object_type" binding:"required,oneof=news notification product service"`       // 归属实体类型，必填
	ObjectID       uint64   `json:"object_id" binding:"required,gt=0"`                                            // 归属实体ID，必填
	IsFeatured     bool     `json:"is_featured"`                                                                  // 是否作为特色图关联
	IsContentImage bool     `json:"is_content_image"`                                                             // 是否作为正文内嵌图关联
	ActorID        string   `json:"actor_id" binding:"omitempty,max=36"`                                          // 操作者ID（审计），可选
}

// ListEntityAttachmentsRequest 定义按实体查询附件列表的请求数据结构
// - form 标签用于 query 参数绑定
type ListEntityAttachmentsRequest struct {
	ObjectType string `json:"object_type" form:"object_type" binding:"required,oneof=news notification product service"` // 实体类型，必填
	ObjectID   uint64 `json:"object_id" form:"object_id" binding:"required,gt=0"`                                        // 实体ID，必填
}
