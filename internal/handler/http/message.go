package http

import (
	"net/http"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 封装了发帖、审核和点赞的 HTTP 处理逻辑
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler 创建 MessageHandler 实例
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// PostMessageRequest 定义发帖请求体
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Post 处理 POST /api/groups/:id/messages，新消息进入待审核状态
func (h *MessageHandler) Post(c *gin.Context) {
	groupID := c.Param("id")
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLog(c).WithError(err).WithField("group_id", groupID).Warn("Handler.PostMessage: Invalid request body")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	msg, err := h.messageService.Post(c.Request.Context(), groupID, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, msg)
}

// Approve 处理 POST /api/messages/:id/approve
func (h *MessageHandler) Approve(c *gin.Context) {
	h.moderate(c, domain.StatusApproved)
}

// Reject 处理 POST /api/messages/:id/reject
func (h *MessageHandler) Reject(c *gin.Context) {
	h.moderate(c, domain.StatusRejected)
}

func (h *MessageHandler) moderate(c *gin.Context, status domain.MessageStatus) {
	msg, err := h.messageService.Moderate(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, msg)
}

// Like 处理 POST /api/messages/:id/like
func (h *MessageHandler) Like(c *gin.Context) {
	msg, err := h.messageService.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, msg)
}
