package service

import (
	"context"

	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
)

// HistoryService 负责变更历史查询. 写入由各业务服务通过 recordHistory 完成.
type HistoryService struct {
	*baseService
}

// NewHistoryService 从 context 获取依赖实例.
func NewHistoryService(c context.Context) *HistoryService {
	return &HistoryService{newBaseService(c)}
}

// List 按条件分页查询变更历史，时间倒序. 删除的法规仍可按 id 追溯.
func (h *HistoryService) List(ctx context.Context, req types.ListHistoryRequest) (types.ListHistoryResponse, error) {
	page, size := normalizePage(req.Page, req.Size)

	query := h.dbClient.GetDB().WithContext(ctx).Model(&model.ChangeHistory{})

	if req.RegulationID != 0 {
		query = query.Where("regulation_id = ?", req.RegulationID)
	}

	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return types.ListHistoryResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	var rows []model.ChangeHistory
	if err := query.Order("created_at DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return types.ListHistoryResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	items := make([]types.HistoryInfo, 0, len(rows))
	for _, row := range rows {
		items = append(items, types.HistoryInfo{
			ID:           row.ID,
			RegulationID: row.RegulationID,
			Action:       row.Action,
			Field:        row.Field,
			Snapshot:     row.Snapshot,
			Operator:     row.Operator,
			Remark:       row.Remark,
			CreatedAt:    fmtTime(row.CreatedAt),
		})
	}

	return types.ListHistoryResponse{Total: int(total), Page: page, Size: size, History: items}, nil
}
