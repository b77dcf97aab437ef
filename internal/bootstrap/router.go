package bootstrap

import (
	"net/http"

	httpHandler "ngl-chats/internal/handler/http"
	wsHandler "ngl-chats/internal/handler/websocket"
	"ngl-chats/internal/middleware"
	"ngl-chats/internal/store"

	"github.com/gin-gonic/gin"
)

// Handlers 汇总路由需要的所有处理器
type Handlers struct {
	Session *httpHandler.SessionHandler
	Group   *httpHandler.GroupHandler
	Message *httpHandler.MessageHandler
	Assist  *httpHandler.AssistHandler
	View    *httpHandler.ViewHandler
	WS      *wsHandler.WebSocketHandler
}

// RegisterRoutes 在 router 上注册全部路由。
// 除登录相关接口和 /ping 外，其余接口都要求已有登录用户。
func RegisterRoutes(router *gin.Engine, st *store.Store, h Handlers) {
	requireUser := middleware.RequireUser(st)

	api := router.Group("/api")
	sessionRoutes := api.Group("/session")
	{
		sessionRoutes.POST("", h.Session.Login)
		sessionRoutes.DELETE("", h.Session.Logout)
		sessionRoutes.GET("", h.Session.Current)
	}

	authed := api.Group("").Use(requireUser)
	{
		authed.GET("/contacts", h.Group.Contacts)

		authed.GET("/views/groups", h.View.GroupList)
		authed.GET("/views/groups/:id", h.View.GroupDetail)
		authed.GET("/views/profile", h.View.Profile)

		authed.POST("/groups", h.Group.Create)
		authed.POST("/groups/join", h.Group.Join)
		authed.POST("/groups/:id/messages", h.Message.Post)

		authed.POST("/messages/:id/approve", h.Message.Approve)
		authed.POST("/messages/:id/reject", h.Message.Reject)
		authed.POST("/messages/:id/like", h.Message.Like)
		authed.POST("/messages/:id/safety", h.Assist.Safety)
		authed.POST("/messages/:id/safety/async", h.Assist.SafetyAsync)

		authed.POST("/assist/polish", h.Assist.Polish)
	}

	wsRoutes := router.Group("/ws").Use(requireUser)
	{
		wsRoutes.GET("/session", h.WS.HandleConnection)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "ngl-chats", "login": "/api/session"})
	})
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	// 未知路径统一回到登录页
	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
}
