// Package router 管理路由配置，将路径和处理器绑定到 gin 引擎.
// 处理器实现由 pkg/internal/handle 提供，角色门禁在这里统一挂载.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
)

// RegisterAPIRoutes 注册全部 /api/v1 业务路由.
func RegisterAPIRoutes(g *gin.RouterGroup) {
	RegisterAuthRoutes(g)
	RegisterRegulationRoutes(g)
	RegisterNotificationRoutes(g)
	RegisterHistoryRoutes(g)
	RegisterSyncRoutes(g)
	RegisterSchedulerRoutes(g)
	RegisterHealthCheckRoute(g)
}

// RegisterFallbackRoute 给未匹配的路径挂 404 兜底处理器.
func RegisterFallbackRoute(engine *gin.Engine) {
	engine.NoRoute(handle.NotFoundHandler)
}
