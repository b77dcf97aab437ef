package middleware

import (
	"net/http"

	"ngl-chats/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ContextUserIDKey 是 RequireUser 写入 gin.Context 的键
const ContextUserIDKey = "user_id"

// RequireUser 返回一个 Gin 中间件：没有登录用户时返回 401，
// 否则把当前用户 ID 写入上下文。
func RequireUser(st *store.Store) gin.HandlerFunc {
	if st == nil {
		panic("Store cannot be nil for RequireUser middleware")
	}

	return func(c *gin.Context) {
		user, ok := st.CurrentUser()
		if !ok {
			logrus.WithField("path", c.Request.URL.Path).Debug("RequireUser: No user logged in")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no user is logged in"})
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}
