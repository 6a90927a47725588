package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
	"github.com/yeisme/regvault/pkg/middleware"
)

// RegisterAuthRoutes 注册认证与用户管理路由.
func RegisterAuthRoutes(g *gin.RouterGroup) {
	authRoutes := g.Group("/auth")
	{
		authRoutes.POST("/register", handle.Register)
		authRoutes.POST("/login", handle.Login)
		authRoutes.PUT("/password", handle.ChangePassword)
		authRoutes.GET("/me", handle.Me)
	}

	// 用户管理仅限管理员
	userRoutes := g.Group("/users", middleware.RequireMinRole(middleware.RoleAdmin))
	{
		userRoutes.GET("", handle.ListUsers)
		userRoutes.PUT("/:id/role", handle.UpdateUserRole)
		userRoutes.DELETE("/:id", handle.DeleteUser)
	}
}
