package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/types"
)

// AddDocument 挂接法规文档.
//
//	@Summary		挂接文档
//	@Description	把本机可读的源文件复制进托管存储 documents/<id>/ 并登记元数据
//	@Tags			法规文件
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"法规 id"
//	@Param			file	body		types.AddFileRequest	true	"源文件信息"
//	@Success		200		{object}	types.DocumentInfo	"登记的文档"
//	@Failure		400		{object}	map[string]string	"源文件不可读"
//	@Failure		404		{object}	map[string]string	"法规不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/documents [post]
func AddDocument(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.AddFileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).AddDocument(c.Request.Context(), id, req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveDocument 删除法规文档.
//
//	@Summary		删除文档
//	@Tags			法规文件
//	@Produce		json
//	@Param			id		path		int					true	"法规 id"
//	@Param			docId	path		int					true	"文档 id"
//	@Success		200		{object}	map[string]string	"删除成功"
//	@Failure		404		{object}	map[string]string	"文档不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/documents/{docId} [delete]
func RemoveDocument(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	docID, ok := uintParam(c, "docId")
	if !ok {
		return
	}

	err := service.NewRegulationService(c.Request.Context()).RemoveDocument(c.Request.Context(), id, docID, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document removed"})
}

// UpdateDocument 修改文档描述.
//
//	@Summary		修改文档描述
//	@Tags			法规文件
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"法规 id"
//	@Param			docId	path		int					true	"文档 id"
//	@Success		200		{object}	map[string]string	"修改成功"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/documents/{docId} [put]
func UpdateDocument(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	docID, ok := uintParam(c, "docId")
	if !ok {
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	err := service.NewRegulationService(c.Request.Context()).UpdateDocument(c.Request.Context(), id, docID, req.Description)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document updated"})
}

// AddCodeFile 挂接法规代码文件.
//
//	@Summary		挂接代码文件
//	@Description	把源文件复制进托管存储 codes/<id>/ 并登记元数据，语言缺省按扩展名推断
//	@Tags			法规文件
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"法规 id"
//	@Param			file	body		types.AddFileRequest	true	"源文件信息"
//	@Success		200		{object}	types.CodeFileInfo	"登记的代码文件"
//	@Failure		400		{object}	map[string]string	"源文件不可读"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/codes [post]
func AddCodeFile(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.AddFileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewRegulationService(c.Request.Context()).AddCodeFile(c.Request.Context(), id, req, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateCodeFile 修改代码文件版本号与描述.
//
//	@Summary		修改代码文件元数据
//	@Tags			法规文件
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"法规 id"
//	@Param			fileId	path		int							true	"代码文件 id"
//	@Param			file	body		types.UpdateCodeFileRequest	true	"要修改的字段"
//	@Success		200		{object}	map[string]string			"修改成功"
//	@Failure		404		{object}	map[string]string			"代码文件不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/codes/{fileId} [put]
func UpdateCodeFile(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	fileID, ok := uintParam(c, "fileId")
	if !ok {
		return
	}

	var req types.UpdateCodeFileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	err := service.NewRegulationService(c.Request.Context()).UpdateCodeFile(c.Request.Context(), id, fileID, req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "code file updated"})
}

// RemoveCodeFile 删除法规代码文件.
//
//	@Summary		删除代码文件
//	@Tags			法规文件
//	@Produce		json
//	@Param			id		path		int					true	"法规 id"
//	@Param			fileId	path		int					true	"代码文件 id"
//	@Success		200		{object}	map[string]string	"删除成功"
//	@Failure		404		{object}	map[string]string	"代码文件不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/regulations/{id}/codes/{fileId} [delete]
func RemoveCodeFile(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	fileID, ok := uintParam(c, "fileId")
	if !ok {
		return
	}

	err := service.NewRegulationService(c.Request.Context()).RemoveCodeFile(c.Request.Context(), id, fileID, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "code file removed"})
}
