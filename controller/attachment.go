package controller

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/content_service/config"
	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/service"
)

// AttachmentController 定义附件控制器的结构体
type AttachmentController struct {
	attachmentService  service.AttachmentService  // 生命周期服务（上传/查询/清理）
	associationService service.AssociationService // 关联协调器
	cfg                config.AttachmentConfig    // 上传策略（大小上限、扩展名白名单）
}

// NewAttachmentController 构造函数，用于创建 AttachmentController 实例
func NewAttachmentController(
	attachmentService service.AttachmentService,
	associationService service.AssociationService,
	cfg config.AttachmentConfig,
) *AttachmentController {
	return &AttachmentController{
		attachmentService:  attachmentService,
		associationService: associationService,
		cfg:                cfg,
	}
}

// actorIDFromContext 取操作者ID：优先网关透传的 UserID，其次表单里显式声明的 actor_id。
func actorIDFromContext(c *gin.Context, fallback string) string {
	if userIDValue, exists := c.Get(string(constants.UserIDKey)); exists {
		if userID, ok := userIDValue.(string); ok && userID != "" {
			return userID
		}
	}
	return fallback
}

// UploadAttachment 上传一个临时附件
// @Summary      上传临时附件
// @Description  上传一个文件并创建临时附件记录。临时附件不与任何业务实体关联，超过保留窗口未被关联的会被后台任务清理。返回附件ID与公开访问 URL。
// @Tags         attachments (附件)
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "待上传的文件"
// @Param        relation_type formData string false "关系类型提示 (如 image、document)，用于临时目录路由" maxLength(32) default(image)
// @Param        actor_id formData string false "操作者ID（网关透传 UserID 时可省略）" maxLength(36)
// @Success      200 {object} vo.AttachmentResponseWrapper "成功响应，包含新附件的ID与URL"
// @Failure      400 {object} vo.BaseResponseWrapper "未提供文件、文件过大或扩展名不被允许"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/attachments [post]
func (ctrl *AttachmentController) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "未提供有效的上传文件: "+err.Error())
		return
	}

	// 上传策略属于外围校验，在进入服务层之前完成。
	if ctrl.cfg.MaxUploadSizeMB > 0 && fileHeader.Size > ctrl.cfg.MaxUploadSizeMB*1024*1024 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput,
			"文件大小超过上限 "+strconv.FormatInt(ctrl.cfg.MaxUploadSizeMB, 10)+"MB")
		return
	}
	if len(ctrl.cfg.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		allowed := false
		for _, candidate := range ctrl.cfg.AllowedExtensions {
			if ext == strings.ToLower(candidate) {
				allowed = true
				break
			}
		}
		if !allowed {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "不允许上传的文件类型: "+ext)
			return
		}
	}

	relationType := c.DefaultPostForm("relation_type", "image")
	actorID := actorIDFromContext(c, c.PostForm("actor_id"))

	attachmentVO, err := ctrl.attachmentService.UploadTemporary(c.Request.Context(), fileHeader, relationType, actorID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "上传附件失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, attachmentVO, "附件上传成功")
}

// AssociateAttachments 将一批附件关联到业务实体
// @Summary      关联附件到实体
// @Description  将一批临时附件晋升为永久并绑定到指定业务实体。不合格的ID（不存在、已绑定其他实体）会被跳过。is_featured 为 true 时旧特色图会被替换，实体的特色图快照字段同步更新。
// @Tags         attachments (附件)
// @Accept       json
// @Produce      json
// @Param        request body dto.AssociateAttachmentsRequest true "关联请求"
// @Success      200 {object} vo.BaseResponseWrapper "成功响应"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      404 {object} vo.BaseResponseWrapper "目标实体不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/attachments/associate [post]
func (ctrl *AttachmentController) AssociateAttachments(c *gin.Context) {
	var req dto.AssociateAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	actorID := actorIDFromContext(c, req.ActorID)
	associated, err := ctrl.associationService.Associate(
		c.Request.Context(),
		req.AttachmentIDs,
		entities.ObjectType(req.ObjectType),
		req.ObjectID,
		req.IsFeatured,
		req.IsContentImage,
		actorID,
	)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "目标实体不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "关联附件失败: "+err.Error())
		return
	}
	if !associated {
		// 全部ID都不合格：请求本身格式合法，但没有产生任何关联。
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "没有任何附件满足关联条件")
		return
	}

	response.RespondSuccess[any](c, nil, "附件关联成功")
}

// ListEntityAttachments 按实体查询附件列表
// @Summary      获取实体的附件列表
// @Description  获取指定业务实体名下全部未删除的附件，按展示顺序排列。
// @Tags         attachments (附件)
// @Accept       json
// @Produce      json
// @Param        object_type query string true "实体类型" Enums(news,notification,product,service)
// @Param        object_id query uint64 true "实体ID" format(uint64) minimum(1)
// @Success      200 {object} vo.AttachmentListResponseWrapper "成功响应，包含附件列表"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/attachments/entity [get]
func (ctrl *AttachmentController) ListEntityAttachments(c *gin.Context) {
	var req dto.ListEntityAttachmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	attachmentVOs, err := ctrl.attachmentService.ListByEntity(c.Request.Context(), entities.ObjectType(req.ObjectType), req.ObjectID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取附件列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, attachmentVOs, "附件列表获取成功")
}

// GetAttachmentByID 获取单个附件
// @Summary      获取附件详情
// @Description  根据附件ID获取单个附件的元数据。
// @Tags         attachments (附件)
// @Accept       json
// @Produce      json
// @Param        attachment_id path uint64 true "附件ID" format(uint64) minimum(1)
// @Success      200 {object} vo.AttachmentResponseWrapper "成功响应"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的附件ID"
// @Failure      404 {object} vo.BaseResponseWrapper "附件不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/attachments/{attachment_id} [get]
func (ctrl *AttachmentController) GetAttachmentByID(c *gin.Context) {
	idStr := c.Param("attachment_id")
	attachmentID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || attachmentID == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的附件ID: "+idStr)
		return
	}

	attachmentVO, err := ctrl.attachmentService.GetByID(c.Request.Context(), attachmentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "附件不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取附件失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, attachmentVO, "附件获取成功")
}

// RegisterRoutes 注册附件相关的路由。
func (ctrl *AttachmentController) RegisterRoutes(group *gin.RouterGroup) {
	attachments := group.Group("/attachments")
	{
		attachments.POST("", ctrl.UploadAttachment)                   // POST /api/v1/content/attachments
		attachments.POST("/associate", ctrl.AssociateAttachments)     // POST /api/v1/content/attachments/associate
		attachments.GET("/entity", ctrl.ListEntityAttachments)        // GET /api/v1/content/attachments/entity
		attachments.GET("/:attachment_id", ctrl.GetAttachmentByID)    // GET /api/v1/content/attachments/:attachment_id
	}
}
