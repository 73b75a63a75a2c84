package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/service"
)

// NewsController 定义新闻控制器的结构体
type NewsController struct {
	newsService service.NewsService // 服务层接口，通过依赖注入传入
}

// NewNewsController 构造函数，用于创建 NewsController 实例
func NewNewsController(newsService service.NewsService) *NewsController {
	return &NewsController{
		newsService: newsService,
	}
}

// parseNewsID 从路径参数解析新闻ID。
func parseNewsID(c *gin.Context) (uint64, bool) {
	idStr := c.Param("news_id")
	newsID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || newsID == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的新闻ID: "+idStr)
		return 0, false
	}
	return newsID, true
}

// CreateNews 创建新闻
// @Summary      创建新闻
// @Description  创建一条新闻。图片不随本请求上传：先通过附件上传接口取得临时附件ID，再在请求体中以 gallery_attachment_ids / featured_attachment_id 声明期望的附件集合；正文中内嵌图片以 data-attachment-id 标记引用。
// @Tags         news (新闻)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateNewsRequest true "创建新闻请求"
// @Success      200 {object} vo.NewsDetailResponseWrapper "成功响应，包含新闻详情"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/news [post]
func (ctrl *NewsController) CreateNews(c *gin.Context) {
	var req dto.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	req.ActorID = actorIDFromContext(c, req.ActorID)

	newsDetailVO, err := ctrl.newsService.CreateNews(c.Request.Context(), &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建新闻失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, newsDetailVO, "新闻创建成功")
}

// UpdateNews 更新新闻
// @Summary      更新新闻
// @Description  更新新闻内容并整理其附件集合。附件字段表达期望终态：与当前一致时不产生任何附件写操作，重复提交安全。
// @Tags         news (新闻)
// @Accept       json
// @Produce      json
// @Param        news_id path uint64 true "新闻ID" format(uint64) minimum(1)
// @Param        request body dto.UpdateNewsRequest true "更新新闻请求"
// @Success      200 {object} vo.NewsDetailResponseWrapper "成功响应，包含更新后的新闻详情"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      404 {object} vo.BaseResponseWrapper "新闻不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/news/{news_id} [put]
func (ctrl *NewsController) UpdateNews(c *gin.Context) {
	newsID, ok := parseNewsID(c)
	if !ok {
		return
	}

	var req dto.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	req.ActorID = actorIDFromContext(c, req.ActorID)

	newsDetailVO, err := ctrl.newsService.UpdateNews(c.Request.Context(), newsID, &req)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "新闻不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新新闻失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, newsDetailVO, "新闻更新成功")
}

// DeleteNews 删除新闻
// @Summary      删除新闻
// @Description  软删除一条新闻，其名下全部附件随之软删除（物理文件保留以备审计）。
// @Tags         news (新闻)
// @Accept       json
// @Produce      json
// @Param        news_id path uint64 true "新闻ID" format(uint64) minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "成功响应"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的新闻ID"
// @Failure      404 {object} vo.BaseResponseWrapper "新闻不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/news/{news_id} [delete]
func (ctrl *NewsController) DeleteNews(c *gin.Context) {
	newsID, ok := parseNewsID(c)
	if !ok {
		return
	}

	actorID := actorIDFromContext(c, "")
	if err := ctrl.newsService.DeleteNews(c.Request.Context(), newsID, actorID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "新闻不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除新闻失败: "+err.Error())
		return
	}

	response.RespondSuccess[any](c, nil, "新闻删除成功")
}

// GetNewsByID 获取新闻详情
// @Summary      获取新闻详情
// @Description  获取一条新闻的完整详情，包含图库附件与正文内嵌图附件。
// @Tags         news (新闻)
// @Accept       json
// @Produce      json
// @Param        news_id path uint64 true "新闻ID" format(uint64) minimum(1)
// @Success      200 {object} vo.NewsDetailResponseWrapper "成功响应，包含新闻详情"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的新闻ID"
// @Failure      404 {object} vo.BaseResponseWrapper "新闻不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/content/news/{news_id} [get]
func (ctrl *NewsController) GetNewsByID(c *gin.Context) {
	newsID, ok := parseNewsID(c)
	if !ok {
		return
	}

	newsDetailVO, err := ctrl.newsService.GetNewsByID(c.Request.Context(), newsID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "新闻不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取新闻失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, newsDetailVO, "新闻详情获取成功")
}

// RegisterRoutes 注册新闻相关的路由。
func (ctrl *NewsController) RegisterRoutes(group *gin.RouterGroup) {
	news := group.Group("/news")
	{
		news.POST("", ctrl.CreateNews)             // POST /api/v1/content/news
		news.PUT("/:news_id", ctrl.UpdateNews)     // PUT /api/v1/content/news/:news_id
		news.DELETE("/:news_id", ctrl.DeleteNews)  // DELETE /api/v1/content/news/:news_id
		news.GET("/:news_id", ctrl.GetNewsByID)    // GET /api/v1/content/news/:news_id
	}
}
