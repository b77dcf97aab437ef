package http

import (
	"net/http"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/service"
	"ngl-chats/internal/store"

	"github.com/gin-gonic/gin"
)

// GroupHandler 封装了群组创建、加入和联系人查询的 HTTP 处理逻辑
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler 创建 GroupHandler 实例
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest 定义创建群组的请求体
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"member_ids"`
}

// JoinGroupRequest 定义加入群组的请求体
type JoinGroupRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

// JoinGroupResponse 定义加入群组的响应
type JoinGroupResponse struct {
	Result store.JoinResult `json:"result"`
	Group  domain.Group     `json:"group"`
}

// Create 处理 POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLog(c).WithError(err).Warn("Handler.CreateGroup: Invalid request body")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req.Name, req.Description, req.MemberIDs)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, group)
}

// Join 处理 POST /api/groups/join。无效的加入码返回 404。
func (h *GroupHandler) Join(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLog(c).WithError(err).Warn("Handler.JoinGroup: Invalid request body")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := h.groupService.JoinGroup(c.Request.Context(), req.JoinCode)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, JoinGroupResponse{Result: outcome.Result, Group: outcome.Group})
}

// Contacts 处理 GET /api/contacts
func (h *GroupHandler) Contacts(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, gin.H{"contacts": h.groupService.Contacts(c.Request.Context())})
}
