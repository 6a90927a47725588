package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
)

// RegisterHistoryRoutes 注册变更历史路由.
func RegisterHistoryRoutes(g *gin.RouterGroup) {
	g.GET("/history", handle.ListHistory)
}
