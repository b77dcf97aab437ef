package http

import (
	"net/http"

	"ngl-chats/internal/service"

	"github.com/gin-gonic/gin"
)

// ViewHandler 返回前端各页面所需的视图数据
type ViewHandler struct {
	viewService *service.ViewService
}

// NewViewHandler 创建 ViewHandler 实例
func NewViewHandler(viewService *service.ViewService) *ViewHandler {
	return &ViewHandler{viewService: viewService}
}

// GroupList 处理 GET /api/views/groups
func (h *ViewHandler) GroupList(c *gin.Context) {
	list, err := h.viewService.GroupList(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, list)
}

// GroupDetail 处理 GET /api/views/groups/:id
func (h *ViewHandler) GroupDetail(c *gin.Context) {
	detail, err := h.viewService.GroupDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, detail)
}

// Profile 处理 GET /api/views/profile
func (h *ViewHandler) Profile(c *gin.Context) {
	profile, err := h.viewService.Profile(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, profile)
}
