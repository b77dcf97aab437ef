package http

import (
	"net/http"

	"ngl-chats/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionHandler 处理登录、登出与当前用户查询。
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler 创建 SessionHandler 实例
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// LoginRequest 定义登录请求体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login 处理 POST /api/session
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid request body")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.sessionService.Login(c.Request.Context(), req.Username)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, user)
}

// Logout 处理 DELETE /api/session
func (h *SessionHandler) Logout(c *gin.Context) {
	h.sessionService.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// Current 处理 GET /api/session
func (h *SessionHandler) Current(c *gin.Context) {
	user, err := h.sessionService.Current(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, user)
}
