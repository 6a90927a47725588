package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
)

const (
	// cellImagePlaceholder 图片公式单元格在文本列中的占位串
	cellImagePlaceholder = "[图片]"
	// imageUnresolvedMark 嵌入图片无法定位媒体数据时的标记
	imageUnresolvedMark = "[图片未提取]"

	// 扩展布局列序：分类 名称 默认值 上限 下限 单位 系数 协议位 备注
	colCategory = 0
	colName     = 1
	colDefault  = 2
	colMax      = 3
	colMin      = 4
	colUnit     = 5
	colCoef     = 6
	colProtocol = 7
	colRemark   = 8
	// 7 列简版无系数与协议位，备注顶到第 7 列
	colRemarkLegacy = 6

	extendedMinWidth = 8
)

// dispimgIDRe 匹配 WPS 嵌入图片公式 DISPIMG 引用的图片 id.
var dispimgIDRe = regexp.MustCompile(`ID_[0-9A-Fa-f]+`)

// ImportExcel 从 xlsx 导入参数表并全量替换已有参数.
// 首行为表头忽略，数据从第 2 行起；兼容 9 列扩展布局与 7 列简版布局.
// 单元格若是嵌入图片公式，文本列落占位串，图片数据尽力提取落盘.
func (p *ParameterService) ImportExcel(ctx context.Context, regulationID uint, req types.ImportParametersRequest, operator string) (types.ImportParametersResponse, error) {
	if _, err := p.load(ctx, regulationID, false); err != nil {
		return types.ImportParametersResponse{}, err
	}

	f, err := excelize.OpenFile(req.SourcePath)
	if err != nil {
		return types.ImportParametersResponse{}, errors.ErrSourceFile.WithReason(err.Error())
	}
	defer f.Close()

	sheet := req.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	if sheet == "" {
		return types.ImportParametersResponse{}, errors.ErrSourceFile.WithReason("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return types.ImportParametersResponse{}, errors.ErrSourceFile.WithReason(err.Error())
	}

	extended := false

	for _, row := range rows[min(1, len(rows)):] {
		if len(row) >= extendedMinWidth {
			extended = true

			break
		}
	}

	items := make([]types.ParameterItem, 0, len(rows))
	// dispimg 引用按出现顺序记录，稍后与包内松散媒体按序配对
	dispimgRows := make([]int, 0, 4)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		excelRow := i + 1

		item := types.ParameterItem{
			Category: cellText(row, colCategory),
			Name:     cellText(row, colName),
		}
		item.DefaultValue = cellText(row, colDefault)
		item.MaxValue = cellText(row, colMax)
		item.MinValue = cellText(row, colMin)
		item.Unit = cellText(row, colUnit)

		if extended {
			item.Coefficient = cellText(row, colCoef)
			item.Protocol = cellText(row, colProtocol)
			item.Description = cellText(row, colRemark)
		} else {
			item.Description = cellText(row, colRemarkLegacy)
		}

		hasImage := false

		width := len(row)
		if width < colRemark+1 {
			width = colRemark + 1
		}

		for c := 0; c < width; c++ {
			cell, nameErr := excelize.CoordinatesToCellName(c+1, excelRow)
			if nameErr != nil {
				continue
			}

			formula, _ := f.GetCellFormula(sheet, cell)
			if formula == "" || !strings.Contains(formula, "DISPIMG") {
				continue
			}

			if dispimgIDRe.FindString(formula) != "" {
				hasImage = true

				setColumnText(&item, c, extended, cellImagePlaceholder)
			}
		}

		if isEmptyItem(item) && !hasImage {
			continue
		}

		if hasImage {
			dispimgRows = append(dispimgRows, len(items))
		}

		items = append(items, item)
	}

	extracted, unresolved := p.resolveImages(f, sheet, req.SourcePath, regulationID, items, dispimgRows)

	// 分类列纵向合并单元格展开后空值延续上一段
	for i := range items {
		if items[i].Category == "" && i > 0 {
			items[i].Category = items[i-1].Category
		}
	}

	if _, err := p.replaceParameters(ctx, regulationID, items, operator, "excel"); err != nil {
		return types.ImportParametersResponse{}, err
	}

	return types.ImportParametersResponse{
		RegulationID:     regulationID,
		Rows:             len(items),
		ImagesExtracted:  extracted,
		ImagesUnresolved: unresolved,
	}, nil
}

// resolveImages 提取行内嵌入图片：优先用锚定图片 API，DISPIMG 引用退回
// 包内 xl/media 按名称排序后的顺序配对. 配不上的行打未提取标记.
func (p *ParameterService) resolveImages(f *excelize.File, sheet, sourcePath string, regulationID uint, items []types.ParameterItem, dispimgRows []int) (extracted, unresolved int) {
	media, err := looseMedia(sourcePath)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("path", sourcePath).Msg("read workbook media failed")
	}

	// 锚定图片直接带数据，可精确到单元格
	if cells, err := f.GetPictureCells(sheet); err == nil {
		for _, cell := range cells {
			pics, picErr := f.GetPictures(sheet, cell)
			if picErr != nil || len(pics) == 0 {
				continue
			}

			_, rowNum, coordErr := excelize.CellNameToCoordinates(cell)
			if coordErr != nil || rowNum < 2 {
				continue
			}

			idx := rowNum - 2
			if idx >= len(items) || items[idx].ImagePath != "" {
				continue
			}

			name := fmt.Sprintf("row%03d%s", idx, pics[0].Extension)

			path, saveErr := p.filesClient.SaveParameterImage(regulationID, name, pics[0].File)
			if saveErr != nil {
				nlog.Logger().Warn().Err(saveErr).Msg("save anchored picture failed")

				continue
			}

			items[idx].ImagePath = path
			extracted++
		}
	}

	for n, idx := range dispimgRows {
		if items[idx].ImagePath != "" {
			continue
		}

		if n >= len(media) {
			items[idx].ImagePath = imageUnresolvedMark
			unresolved++

			continue
		}

		name := fmt.Sprintf("row%03d%s", idx, filepath.Ext(media[n].name))

		path, saveErr := p.filesClient.SaveParameterImage(regulationID, name, media[n].data)
		if saveErr != nil {
			nlog.Logger().Warn().Err(saveErr).Msg("save embedded picture failed")

			items[idx].ImagePath = imageUnresolvedMark
			unresolved++

			continue
		}

		items[idx].ImagePath = path
		extracted++
	}

	return extracted, unresolved
}

type mediaFile struct {
	name string
	data []byte
}

// looseMedia 读取 xlsx 包内 xl/media 下的全部媒体文件，按名称排序.
func looseMedia(path string) ([]mediaFile, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	media := make([]mediaFile, 0, 4)

	for _, zf := range zr.File {
		if !strings.HasPrefix(zf.Name, "xl/media/") {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			continue
		}

		data, err := io.ReadAll(rc)

		rc.Close()

		if err != nil {
			continue
		}

		media = append(media, mediaFile{name: filepath.Base(zf.Name), data: data})
	}

	sort.Slice(media, func(i, j int) bool { return media[i].name < media[j].name })

	return media, nil
}

// cellText 安全取列文本，越界为空.
func cellText(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}

	return ""
}

// setColumnText 把占位串写回 item 对应的列.
func setColumnText(item *types.ParameterItem, col int, extended bool, text string) {
	switch col {
	case colCategory:
		item.Category = text
	case colName:
		item.Name = text
	case colDefault:
		item.DefaultValue = text
	case colMax:
		item.MaxValue = text
	case colMin:
		item.MinValue = text
	case colUnit:
		item.Unit = text
	case colCoef:
		if extended {
			item.Coefficient = text
		} else {
			item.Description = text
		}
	case colProtocol:
		if extended {
			item.Protocol = text
		}
	case colRemark:
		item.Description = text
	}
}

func isEmptyItem(item types.ParameterItem) bool {
	return item.Category == "" && item.Name == "" && item.DefaultValue == "" &&
		item.MaxValue == "" && item.MinValue == "" && item.Unit == "" &&
		item.Coefficient == "" && item.Protocol == "" && item.Description == ""
}
