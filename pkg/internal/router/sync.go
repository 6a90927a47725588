package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
	"github.com/yeisme/regvault/pkg/middleware"
)

// RegisterSyncRoutes 注册数据同步与更新检查路由.
func RegisterSyncRoutes(g *gin.RouterGroup) {
	editor := middleware.RequireMinRole(middleware.RoleEditor)

	syncRoutes := g.Group("/sync")
	{
		syncRoutes.GET("/status", handle.SyncStatus)
		syncRoutes.POST("/pull", editor, handle.SyncPull)
		// 发布推送涉及凭证，只给管理员
		syncRoutes.POST("/release", middleware.RequireMinRole(middleware.RoleAdmin), handle.PushRelease)
	}

	updateRoutes := g.Group("/update")
	{
		updateRoutes.POST("/check", handle.CheckUpdate)
		updateRoutes.GET("/latest", handle.CachedUpdate)
	}
}
