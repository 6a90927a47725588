package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/types"
	"github.com/yeisme/regvault/pkg/rule"
)

// CreateRegulation 新建法规.
//
//	@Summary		新建法规
//	@Description	创建一条并网法规记录，编号全局唯一，重复返回 409
//	@Tags			法规
//	@Accept			json
//	@Produce		json
//	@Param			regulation	body		types.CreateRegulationRequest	true	"法规信息"
//	@Success		200			{object}	types.RegulationInfo			"创建成功的法规"
//	@Failure		400			{object}	map[string]string				"请求参数错误"
//	@Failure		409			{object}	map[string]string				"编号已存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations [post]
func CreateRegulation(c *gin.Context) {
	var req types.CreateRegulationRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).Create(c.Request.Context(), req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRegulation 按 id 查法规详情.
//
//	@Summary		法规详情
//	@Description	返回法规及其文档、代码文件与标签
//	@Tags			法规
//	@Produce		json
//	@Param			id	path		int						true	"法规 id"
//	@Success		200	{object}	types.RegulationInfo	"法规详情"
//	@Failure		404	{object}	map[string]string		"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id} [get]
func GetRegulation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRegulationByCode 按编号查法规详情.
//
//	@Summary		按编号查法规
//	@Tags			法规
//	@Produce		json
//	@Param			code	path		string					true	"法规编号"
//	@Success		200		{object}	types.RegulationInfo	"法规详情"
//	@Failure		404		{object}	map[string]string		"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/code/{code} [get]
func GetRegulationByCode(c *gin.Context) {
	resp, err := service.NewRegulationService(c.Request.Context()).GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateRegulation 部分更新法规.
//
//	@Summary		更新法规
//	@Description	只更新请求体中出现的字段；tags 出现时整体替换标签集合
//	@Tags			法规
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int								true	"法规 id"
//	@Param			regulation	body		types.UpdateRegulationRequest	true	"要更新的字段"
//	@Success		200			{object}	types.RegulationInfo			"更新后的法规"
//	@Failure		404			{object}	map[string]string				"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id} [put]
func UpdateRegulation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRegulationRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).Update(c.Request.Context(), id, req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteRegulation 删除法规.
//
//	@Summary		删除法规
//	@Description	删除前写入快照历史，随后清理托管目录并删除关联行；目录清理失败以警告返回
//	@Tags			法规
//	@Produce		json
//	@Param			id	path		int								true	"法规 id"
//	@Success		200	{object}	types.DeleteRegulationResponse	"删除结果"
//	@Failure		404	{object}	map[string]string				"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id} [delete]
func DeleteRegulation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).Delete(c.Request.Context(), id, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListRegulations 法规列表与搜索.
//
//	@Summary		法规列表
//	@Description	按国家、分类、状态、标签与关键字过滤，创建时间倒序分页
//	@Tags			法规
//	@Produce		json
//	@Param			country		query		string							false	"国家"
//	@Param			category	query		string							false	"分类"
//	@Param			status		query		string							false	"状态"
//	@Param			tags		query		[]string						false	"标签（可多值）"
//	@Param			keyword		query		string							false	"关键字，匹配编号/名称/描述"
//	@Param			page		query		int								false	"页码"
//	@Param			size		query		int								false	"页大小"
//	@Success		200			{object}	types.ListRegulationsResponse	"法规列表"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations [get]
func ListRegulations(c *gin.Context) {
	var req types.ListRegulationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
