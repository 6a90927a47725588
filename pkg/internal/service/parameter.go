package service

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

// ParameterService 负责法规参数表的读写与 Excel 导入.
type ParameterService struct {
	*RegulationService
}

// NewParameterService 从 context 获取依赖实例.
func NewParameterService(c context.Context) *ParameterService {
	return &ParameterService{NewRegulationService(c)}
}

// List 按行序返回法规的参数表.
func (p *ParameterService) List(ctx context.Context, regulationID uint) (types.ListParametersResponse, error) {
	if _, err := p.load(ctx, regulationID, false); err != nil {
		return types.ListParametersResponse{}, err
	}

	var rows []model.Parameter

	err := p.dbClient.GetDB().WithContext(ctx).
		Where("regulation_id = ?", regulationID).
		Order("row_order ASC").
		Find(&rows).Error
	if err != nil {
		return types.ListParametersResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	items := make([]types.ParameterItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, parameterToItem(row))
	}

	return types.ListParametersResponse{
		RegulationID:  regulationID,
		Parameters:    items,
		CategorySpans: CategorySpans(itemCategories(items)),
	}, nil
}

// Save 全量替换参数表：删旧插新在一个事务里，RowOrder 取提交顺序.
func (p *ParameterService) Save(ctx context.Context, regulationID uint, req types.SaveParametersRequest, operator string) (types.ListParametersResponse, error) {
	return p.replaceParameters(ctx, regulationID, req.Parameters, operator, "manual")
}

// replaceParameters 手工保存和 Excel 导入共用的替换逻辑.
func (p *ParameterService) replaceParameters(ctx context.Context, regulationID uint, items []types.ParameterItem, operator, source string) (types.ListParametersResponse, error) {
	if _, err := p.load(ctx, regulationID, false); err != nil {
		return types.ListParametersResponse{}, err
	}

	rows := make([]model.Parameter, 0, len(items))
	for i, item := range items {
		rows = append(rows, model.Parameter{
			RegulationID: regulationID,
			RowOrder:     i,
			Category:     item.Category,
			Name:         item.Name,
			Protocol:     item.Protocol,
			MinValue:     item.MinValue,
			MaxValue:     item.MaxValue,
			DefaultValue: item.DefaultValue,
			Coefficient:  item.Coefficient,
			Unit:         item.Unit,
			Description:  item.Description,
			ImagePath:    item.ImagePath,
		})
	}

	err := p.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("regulation_id = ?", regulationID).Delete(&model.Parameter{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		return tx.Create(&rows).Error
	})
	if err != nil {
		return types.ListParametersResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	action := model.ActionUpdate
	if source != "manual" {
		action = model.ActionImport
	}

	p.recordHistory(ctx, model.ChangeHistory{
		RegulationID: regulationID,
		Action:       action,
		Field:        "parameters",
		Operator:     operator,
		Remark:       remarkRowCount(len(rows)),
	})

	payload := queue.ParametersSavedPayload{
		RegulationID: regulationID,
		Count:        len(rows),
		Source:       source,
		Operator:     operator,
	}
	if err := queue.PublishEvent(ctx, p.mqClient, queue.TopicParametersSaved, payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Uint("regulation_id", regulationID).Msg("publish parameters event failed")
	}

	saved := make([]types.ParameterItem, 0, len(rows))
	for _, row := range rows {
		saved = append(saved, parameterToItem(row))
	}

	return types.ListParametersResponse{
		RegulationID:  regulationID,
		Parameters:    saved,
		CategorySpans: CategorySpans(itemCategories(saved)),
	}, nil
}

func itemCategories(items []types.ParameterItem) []string {
	categories := make([]string, 0, len(items))
	for _, item := range items {
		categories = append(categories, item.Category)
	}

	return categories
}

// CategorySpans 计算分类列的纵向展示跨度：相邻相同的非空分类并成一段，
// 空分类延续上一段，遇到不同的非空分类截断.
func CategorySpans(categories []string) [][2]int {
	spans := make([][2]int, 0, len(categories))

	start := -1
	current := ""

	for i, cat := range categories {
		switch {
		case start < 0:
			start, current = i, cat
		case cat == "" || cat == current:
			// 延续当前段
		default:
			spans = append(spans, [2]int{start, i - 1})
			start, current = i, cat
		}
	}

	if start >= 0 {
		spans = append(spans, [2]int{start, len(categories) - 1})
	}

	return spans
}

func parameterToItem(row model.Parameter) types.ParameterItem {
	return types.ParameterItem{
		RowOrder:     row.RowOrder,
		Category:     row.Category,
		Name:         row.Name,
		Protocol:     row.Protocol,
		MinValue:     row.MinValue,
		MaxValue:     row.MaxValue,
		DefaultValue: row.DefaultValue,
		Coefficient:  row.Coefficient,
		Unit:         row.Unit,
		Description:  row.Description,
		ImagePath:    row.ImagePath,
	}
}

func remarkRowCount(n int) string {
	return "rows=" + strconv.Itoa(n)
}
