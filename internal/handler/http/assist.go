package http

import (
	"net/http"

	"ngl-chats/internal/service"

	"github.com/gin-gonic/gin"
)

// AssistHandler 暴露 AI 辅助功能
type AssistHandler struct {
	assistService *service.AssistService
}

// NewAssistHandler 创建 AssistHandler 实例
func NewAssistHandler(assistService *service.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

// PolishRequest 定义润色请求体
type PolishRequest struct {
	Content string `json:"content" binding:"required"`
}

// SafetyResponse 是同步安全检查的响应
type SafetyResponse struct {
	MessageID string `json:"message_id"`
	Verdict   string `json:"verdict"`
	Reason    string `json:"reason,omitempty"`
	Label     string `json:"label"`
}

// Polish 处理 POST /api/assist/polish。AI 不可用时返回原文。
func (h *AssistHandler) Polish(c *gin.Context) {
	var req PolishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLog(c).WithError(err).Warn("Handler.Polish: Invalid request body")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	polished, err := h.assistService.Polish(c.Request.Context(), req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"content": polished})
}

// Safety 处理 POST /api/messages/:id/safety，同步执行并记录结果
func (h *AssistHandler) Safety(c *gin.Context) {
	messageID := c.Param("id")
	report, err := h.assistService.AnalyzeMessage(c.Request.Context(), messageID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, SafetyResponse{
		MessageID: messageID,
		Verdict:   string(report.Verdict),
		Reason:    report.Reason,
		Label:     report.Label(),
	})
}

// SafetyAsync 处理 POST /api/messages/:id/safety/async。
// 结果稍后写入消息的 ai_analysis 字段，并通过 WebSocket 推送。
func (h *AssistHandler) SafetyAsync(c *gin.Context) {
	messageID := c.Param("id")
	if err := h.assistService.QueueAnalysis(c.Request.Context(), messageID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusAccepted, gin.H{"message_id": messageID, "status": "queued"})
}
