package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/handle"
	"github.com/yeisme/regvault/pkg/middleware"
)

// RegisterRegulationRoutes 注册法规及其文档、代码、参数与代码生成路由.
// 读操作对所有角色开放，写操作要求 editor 及以上.
func RegisterRegulationRoutes(g *gin.RouterGroup) {
	editor := middleware.RequireMinRole(middleware.RoleEditor)

	regRoutes := g.Group("/regulations")
	{
		regRoutes.GET("", handle.ListRegulations)
		regRoutes.POST("", editor, handle.CreateRegulation)
		regRoutes.GET("/code/:code", handle.GetRegulationByCode)

		singleGroup := regRoutes.Group("/:id")
		{
			singleGroup.GET("", handle.GetRegulation)
			singleGroup.PUT("", editor, handle.UpdateRegulation)
			singleGroup.DELETE("", editor, handle.DeleteRegulation)

			// 文档副本
			docGroup := singleGroup.Group("/documents")
			{
				docGroup.POST("", editor, handle.AddDocument)
				docGroup.PUT("/:docId", editor, handle.UpdateDocument)
				docGroup.DELETE("/:docId", editor, handle.RemoveDocument)
			}

			// 代码文件副本
			codeGroup := singleGroup.Group("/codes")
			{
				codeGroup.POST("", editor, handle.AddCodeFile)
				codeGroup.PUT("/:fileId", editor, handle.UpdateCodeFile)
				codeGroup.DELETE("/:fileId", editor, handle.RemoveCodeFile)
			}

			// 参数表
			paramGroup := singleGroup.Group("/parameters")
			{
				paramGroup.GET("", handle.ListParameters)
				paramGroup.PUT("", editor, handle.SaveParameters)
				paramGroup.POST("/import", editor, handle.ImportParameters)
			}

			// C 参数数组生成
			singleGroup.POST("/codegen", editor, handle.GenerateCode)
		}
	}

	// 批量导入导出
	transferRoutes := g.Group("/transfer")
	{
		transferRoutes.POST("/export", handle.ExportRegulations)
		transferRoutes.POST("/import", editor, handle.ImportRegulations)
	}
}
