package service

import (
	"context"
	crand "crypto/rand"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

const (
	formatJSON  = "json"
	formatExcel = "excel"

	exportSheetName = "Regulations"
)

// exportHeader 法规导出表头，导入按同样的列序解析.
var exportHeader = []string{"编号", "名称", "国家", "分类", "状态", "版本", "生效日期", "描述", "标签"}

// TransferService 负责法规批量导入导出（JSON / Excel）.
type TransferService struct {
	*RegulationService
}

// NewTransferService 从 context 获取依赖实例.
func NewTransferService(c context.Context) *TransferService {
	return &TransferService{NewRegulationService(c)}
}

// Export 按过滤条件导出法规，JSON 随带参数表，Excel 只含主数据.
// 文件写到托管存储 exports/ 下，文件名含 ULID 防冲突.
func (t *TransferService) Export(ctx context.Context, req types.ExportRegulationsRequest) (types.ExportRegulationsResponse, error) {
	format := req.Format
	if format == "" {
		format = formatJSON
	}

	regs, err := t.queryForExport(ctx, req)
	if err != nil {
		return types.ExportRegulationsResponse{}, err
	}

	exports := make([]types.RegulationExport, 0, len(regs))

	for _, reg := range regs {
		item := types.RegulationExport{
			Code:          reg.Code,
			Name:          reg.Name,
			Country:       reg.Country,
			Category:      reg.Category,
			Status:        reg.Status,
			Version:       reg.Version,
			Description:   reg.Description,
			EffectiveDate: reg.EffectiveDate,
		}
		for _, tag := range reg.Tags {
			item.Tags = append(item.Tags, tag.Name)
		}

		if format == formatJSON {
			var params []model.Parameter
			if err := t.dbClient.GetDB().WithContext(ctx).
				Where("regulation_id = ?", reg.ID).Order("row_order ASC").
				Find(&params).Error; err != nil {
				return types.ExportRegulationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
			}

			for _, p := range params {
				item.Parameters = append(item.Parameters, parameterToItem(p))
			}
		}

		exports = append(exports, item)
	}

	bundleID := ulid.MustNew(ulid.Now(), crand.Reader).String()

	var path string

	switch format {
	case formatJSON:
		path = t.filesClient.ExportPath(fmt.Sprintf("regulations-%s.json", bundleID))

		data, err := sonic.MarshalIndent(exports, "", "  ")
		if err != nil {
			return types.ExportRegulationsResponse{}, errors.ErrInternal.WithReason(err.Error())
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return types.ExportRegulationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
		}
	case formatExcel:
		path = t.filesClient.ExportPath(fmt.Sprintf("regulations-%s.xlsx", bundleID))
		if err := writeExportWorkbook(path, exports); err != nil {
			return types.ExportRegulationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
		}
	default:
		return types.ExportRegulationsResponse{}, errors.ErrInvalidInput.WithReasonf("unsupported format: %s", format)
	}

	return types.ExportRegulationsResponse{
		Path:     path,
		Count:    len(exports),
		BundleID: bundleID,
	}, nil
}

// Import 从 JSON 或 Excel 文件批量导入法规，逐行累计统计，单行失败不中断.
func (t *TransferService) Import(ctx context.Context, req types.ImportRegulationsRequest, operator string) (types.ImportStats, error) {
	format := req.Format
	if format == "" {
		if strings.EqualFold(filepath.Ext(req.SourcePath), ".xlsx") {
			format = formatExcel
		} else {
			format = formatJSON
		}
	}

	var (
		items []types.RegulationExport
		err   error
	)

	switch format {
	case formatJSON:
		items, err = readImportJSON(req.SourcePath)
	case formatExcel:
		items, err = readImportWorkbook(req.SourcePath)
	default:
		return types.ImportStats{}, errors.ErrInvalidInput.WithReasonf("unsupported format: %s", format)
	}

	if err != nil {
		return types.ImportStats{}, errors.ErrSourceFile.WithReason(err.Error())
	}

	stats := types.ImportStats{Total: len(items)}

	for i, item := range items {
		if item.Code == "" || item.Name == "" {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: code and name are required", i+1))

			continue
		}

		if err := t.importOne(ctx, item, req.Overwrite, operator, &stats); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d (%s): %v", i+1, item.Code, err))
		}
	}

	payload := queue.RegulationImportedPayload{
		Source:   format,
		Total:    stats.Total,
		Success:  stats.Success,
		Skipped:  stats.Skipped,
		Failed:   stats.Failed,
		Operator: operator,
	}
	if err := queue.PublishEvent(ctx, t.mqClient, queue.TopicRegulationImported, payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Msg("publish import event failed")
	}

	return stats, nil
}

// importOne 导入单条法规：编号已存在按 overwrite 决定覆盖或跳过.
func (t *TransferService) importOne(ctx context.Context, item types.RegulationExport, overwrite bool, operator string, stats *types.ImportStats) error {
	gdb := t.dbClient.GetDB().WithContext(ctx)

	var existing model.Regulation

	err := gdb.Where("code = ?", item.Code).First(&existing).Error

	switch {
	case err == nil && !overwrite:
		stats.Skipped++

		return nil
	case err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	tags, tagErr := t.ensureTags(ctx, item.Tags)
	if tagErr != nil {
		return tagErr
	}

	reg := existing
	reg.Code = item.Code
	reg.Name = item.Name
	reg.Country = item.Country
	reg.Category = item.Category
	reg.Status = item.Status
	reg.Version = item.Version
	reg.Description = item.Description
	reg.EffectiveDate = item.EffectiveDate

	if reg.Status == "" {
		reg.Status = model.StatusDraft
	}

	if err := gdb.Save(&reg).Error; err != nil {
		return err
	}

	if err := gdb.Model(&reg).Association("Tags").Replace(tags); err != nil {
		return err
	}

	if len(item.Parameters) > 0 {
		if _, err := t.asParameterService().replaceParameters(ctx, reg.ID, item.Parameters, operator, "import"); err != nil {
			return err
		}
	}

	t.recordHistory(ctx, model.ChangeHistory{
		RegulationID: reg.ID,
		Action:       model.ActionImport,
		Operator:     operator,
		Remark:       "import " + item.Code,
	})

	stats.Success++

	return nil
}

func (t *TransferService) asParameterService() *ParameterService {
	return &ParameterService{t.RegulationService}
}

// queryForExport 与列表接口同样的过滤语义，但不分页.
func (t *TransferService) queryForExport(ctx context.Context, req types.ExportRegulationsRequest) ([]model.Regulation, error) {
	query := t.dbClient.GetDB().WithContext(ctx).Model(&model.Regulation{})

	if req.Country != "" {
		query = query.Where("country = ?", req.Country)
	}

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		query = query.Where("code LIKE ? OR name LIKE ? OR description LIKE ?", kw, kw, kw)
	}

	if len(req.Tags) > 0 {
		query = query.
			Joins("JOIN regulation_tags rt ON rt.regulation_id = regulations.id").
			Joins("JOIN tags ON tags.id = rt.tag_id").
			Where("tags.name IN ?", req.Tags).
			Distinct("regulations.*")
	}

	var regs []model.Regulation
	if err := query.Preload("Tags").Order("regulations.code ASC").Find(&regs).Error; err != nil {
		return nil, errors.ErrStorageFailed.WithReason(err.Error())
	}

	return regs, nil
}

func readImportJSON(path string) ([]types.RegulationExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []types.RegulationExport
	if err := sonic.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// readImportWorkbook 解析 Excel 导入文件，列序与导出表头一致，首行忽略.
func readImportWorkbook(path string) ([]types.RegulationExport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	items := make([]types.RegulationExport, 0, len(rows))

	for i := 1; i < len(rows); i++ {
		row := rows[i]

		item := types.RegulationExport{
			Code:          cellText(row, 0),
			Name:          cellText(row, 1),
			Country:       cellText(row, 2),
			Category:      cellText(row, 3),
			Status:        cellText(row, 4),
			Version:       cellText(row, 5),
			EffectiveDate: cellText(row, 6),
			Description:   cellText(row, 7),
		}

		if tagCell := cellText(row, 8); tagCell != "" {
			for _, name := range strings.FieldsFunc(tagCell, func(r rune) bool { return r == ',' || r == '，' || r == ';' }) {
				if name = strings.TrimSpace(name); name != "" {
					item.Tags = append(item.Tags, name)
				}
			}
		}

		if item.Code == "" && item.Name == "" {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

// writeExportWorkbook 生成导出 Excel：加粗底色表头加全边框，数据行平铺.
func writeExportWorkbook(path string, items []types.RegulationExport) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for col, header := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}

		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return err
		}

		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, item := range items {
		values := []any{
			item.Code, item.Name, item.Country, item.Category, item.Status,
			item.Version, item.EffectiveDate, item.Description, strings.Join(item.Tags, ","),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}

			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
