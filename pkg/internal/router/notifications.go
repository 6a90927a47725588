package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
)

// RegisterNotificationRoutes 注册站内通知路由.
func RegisterNotificationRoutes(g *gin.RouterGroup) {
	notifyRoutes := g.Group("/notifications")
	{
		notifyRoutes.GET("", handle.ListNotifications)
		notifyRoutes.GET("/unread", handle.UnreadCount)
		notifyRoutes.PUT("/:id/read", handle.MarkNotificationRead)
		notifyRoutes.PUT("/read-all", handle.MarkAllNotificationsRead)
		notifyRoutes.DELETE("", handle.ClearNotifications)
	}
}
