package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/types"
)

// SyncStatus 本地法规库仓库状态.
//
//	@Summary		仓库状态
//	@Description	返回本地 git 仓库的分支、HEAD 与工作区是否干净
//	@Tags			数据同步
//	@Produce		json
//	@Success		200	{object}	types.SyncStatusResponse	"仓库状态"
//	@Failure		502	{object}	map[string]string			"git 不可用"
//	@Security		BearerAuth
//	@Router			/api/v1/sync/status [get]
func SyncStatus(c *gin.Context) {
	resp, err := service.NewSyncService(c.Request.Context()).Status(c.Request.Context())
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// SyncPull 从远端拉取法规库.
//
//	@Summary		拉取远端
//	@Description	git pull 同步法规数据，固定超时，失败以 502 浮出
//	@Tags			数据同步
//	@Produce		json
//	@Success		200	{object}	types.SyncPullResponse	"拉取结果"
//	@Failure		502	{object}	map[string]string		"git 执行失败"
//	@Security		BearerAuth
//	@Router			/api/v1/sync/pull [post]
func SyncPull(c *gin.Context) {
	resp, err := service.NewSyncService(c.Request.Context()).Pull(c.Request.Context())
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// PushRelease 推送发布包到 GitHub Release.
//
//	@Summary		推送发布包
//	@Description	创建 GitHub Release 并上传资产文件，可选同时备份到对象存储
//	@Tags			数据同步
//	@Accept			json
//	@Produce		json
//	@Param			release	body		types.PushReleaseRequest	true	"发布信息"
//	@Success		200		{object}	types.PushReleaseResponse	"发布结果"
//	@Failure		400		{object}	map[string]string			"GitHub 配置缺失"
//	@Failure		502		{object}	map[string]string			"GitHub 调用失败"
//	@Security		BearerAuth
//	@Router			/api/v1/sync/release [post]
func PushRelease(c *gin.Context) {
	var req types.PushReleaseRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewSyncService(c.Request.Context()).PushRelease(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckUpdate 检查新版本.
//
//	@Summary		检查更新
//	@Description	拉取远端版本描述符并与当前版本比较；网络失败降级为无更新
//	@Tags			更新
//	@Produce		json
//	@Success		200	{object}	types.UpdateCheckResponse	"检查结果"
//	@Security		BearerAuth
//	@Router			/api/v1/update/check [post]
func CheckUpdate(c *gin.Context) {
	resp, err := service.NewUpdateService(c.Request.Context()).Check(c.Request.Context())
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CachedUpdate 最近一次检查结果.
//
//	@Summary		最近检查结果
//	@Tags			更新
//	@Produce		json
//	@Success		200	{object}	types.UpdateCheckResponse	"缓存的检查结果"
//	@Failure		404	{object}	map[string]string			"尚无缓存"
//	@Security		BearerAuth
//	@Router			/api/v1/update/latest [get]
func CachedUpdate(c *gin.Context) {
	resp, err := service.NewUpdateService(c.Request.Context()).Cached(c.Request.Context())
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportRegulations 批量导出法规.
//
//	@Summary		批量导出
//	@Description	按过滤条件导出法规到托管存储 exports/ 下，支持 JSON 与 Excel
//	@Tags			导入导出
//	@Accept			json
//	@Produce		json
//	@Param			filter	body		types.ExportRegulationsRequest	true	"导出条件"
//	@Success		200		{object}	types.ExportRegulationsResponse	"导出结果"
//	@Security		BearerAuth
//	@Router			/api/v1/transfer/export [post]
func ExportRegulations(c *gin.Context) {
	var req types.ExportRegulationsRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewTransferService(c.Request.Context()).Export(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportRegulations 批量导入法规.
//
//	@Summary		批量导入
//	@Description	从 JSON 或 Excel 文件导入法规，逐行累计统计，单行失败不中断
//	@Tags			导入导出
//	@Accept			json
//	@Produce		json
//	@Param			source	body		types.ImportRegulationsRequest	true	"导入源"
//	@Success		200		{object}	types.ImportStats				"导入统计"
//	@Failure		400		{object}	map[string]string				"源文件不可读"
//	@Security		BearerAuth
//	@Router			/api/v1/transfer/import [post]
func ImportRegulations(c *gin.Context) {
	var req types.ImportRegulationsRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewTransferService(c.Request.Context()).Import(c.Request.Context(), req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
