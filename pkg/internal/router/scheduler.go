package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
	"github.com/yeisme/regvault/pkg/middleware"
)

// RegisterSchedulerRoutes 注册调度器管理路由，仅限管理员.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	schedRoutes := g.Group("/scheduler", middleware.RequireMinRole(middleware.RoleAdmin))
	{
		schedRoutes.GET("/jobs", handle.SchedulerJobs)
		schedRoutes.GET("/jobs/:name", handle.SchedulerJob)
		schedRoutes.DELETE("/jobs/:name", handle.SchedulerRemoveJob)
	}
}
