package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/types"
	"github.com/yeisme/regvault/pkg/rule"
)

// ListHistory 变更历史.
//
//	@Summary		变更历史
//	@Description	按法规与动作过滤的变更历史，时间倒序分页；删除的法规仍可追溯
//	@Tags			历史
//	@Produce		json
//	@Param			regulation_id	query		int							false	"法规 id"
//	@Param			action			query		string						false	"动作 create/update/delete/import"
//	@Param			page			query		int							false	"页码"
//	@Param			size			query		int							false	"页大小"
//	@Success		200				{object}	types.ListHistoryResponse	"历史列表"
//	@Security		BearerAuth
//	@Router			/api/v1/history [get]
func ListHistory(c *gin.Context) {
	var req types.ListHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewHistoryService(c.Request.Context()).List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
