package http

import (
	"errors"
	"net/http"

	"ngl-chats/internal/service"

	"github.com/gin-gonic/gin"
)

// HandleServiceError 把服务层错误转换为 HTTP 状态码和错误响应。
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidJoinCode),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrMessageNotApproved):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrQueueUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		// Log the internal error for debugging
		requestLog(c).WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
