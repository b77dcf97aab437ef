package http

import (
	"ngl-chats/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// requestLog 返回带有当前用户 (由 RequireUser 写入) 和路由的日志条目
func requestLog(c *gin.Context) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"user_id": c.GetString(middleware.ContextUserIDKey),
		"route":   c.FullPath(),
	})
}
