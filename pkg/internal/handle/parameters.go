package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/types"
)

// ListParameters 法规参数表.
//
//	@Summary		参数表
//	@Description	按行序返回法规的参数行
//	@Tags			参数
//	@Produce		json
//	@Param			id	path		int								true	"法规 id"
//	@Success		200	{object}	types.ListParametersResponse	"参数表"
//	@Failure		404	{object}	map[string]string				"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/parameters [get]
func ListParameters(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	resp, err := service.NewParameterService(c.Request.Context()).List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// SaveParameters 全量保存参数表.
//
//	@Summary		保存参数表
//	@Description	删旧插新整体替换，行序取提交顺序，单事务提交
//	@Tags			参数
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int								true	"法规 id"
//	@Param			parameters	body		types.SaveParametersRequest		true	"参数行"
//	@Success		200			{object}	types.ListParametersResponse	"保存后的参数表"
//	@Failure		404			{object}	map[string]string				"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/parameters [put]
func SaveParameters(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.SaveParametersRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewParameterService(c.Request.Context()).Save(c.Request.Context(), id, req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportParameters 从 Excel 导入参数表.
//
//	@Summary		Excel 导入参数
//	@Description	解析 xlsx 参数表（含嵌入图片提取）并全量替换已有参数
//	@Tags			参数
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"法规 id"
//	@Param			source	body		types.ImportParametersRequest	true	"xlsx 文件信息"
//	@Success		200		{object}	types.ImportParametersResponse	"导入统计"
//	@Failure		400		{object}	map[string]string				"源文件不可读或格式错误"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/parameters/import [post]
func ImportParameters(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.ImportParametersRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewParameterService(c.Request.Context()).ImportExcel(c.Request.Context(), id, req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateCode 生成 C 参数数组.
//
//	@Summary		生成参数代码
//	@Description	按参数表重写 C 模板默认值数组，保留模板头部、注释与原上下限
//	@Tags			代码生成
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int							true	"法规 id"
//	@Param			template	body		types.GenerateCodeRequest	true	"模板与输出路径"
//	@Success		200			{object}	types.GenerateCodeResponse	"生成结果"
//	@Failure		400			{object}	map[string]string			"模板不可读"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/codegen [post]
func GenerateCode(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.GenerateCodeRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewCodegenService(c.Request.Context()).Generate(c.Request.Context(), id, req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
