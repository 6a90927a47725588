package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
)

func seedRegulation(t *testing.T, ctx context.Context, code string) uint {
	t.Helper()

	info, err := NewRegulationService(ctx).Create(ctx, types.CreateRegulationRequest{
		Code: code,
		Name: "测试法规 " + code,
	}, "tester")
	require.NoError(t, err)

	return info.ID
}

// TestParameterSaveRoundTrip 保存 k 行后读回内容与顺序一致.
func TestParameterSaveRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "VDE-AR-N 4105")
	svc := NewParameterService(ctx)

	items := []types.ParameterItem{
		{Category: "电压保护", Name: "过压一段", Protocol: "0x3010", DefaultValue: "253", MaxValue: "270", MinValue: "230", Unit: "V"},
		{Category: "电压保护", Name: "过压二段", Protocol: "0x3011", DefaultValue: "264.5", MaxValue: "270", MinValue: "230", Unit: "V"},
		{Category: "频率保护", Name: "过频一段", Protocol: "0x3020", DefaultValue: "51.5", Unit: "Hz"},
	}

	saved, err := svc.Save(ctx, regID, types.SaveParametersRequest{Parameters: items}, "tester")
	require.NoError(t, err)
	require.Len(t, saved.Parameters, 3)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	require.Len(t, listed.Parameters, 3)

	for i, item := range listed.Parameters {
		assert.Equal(t, i, item.RowOrder)
		assert.Equal(t, items[i].Name, item.Name)
		assert.Equal(t, items[i].DefaultValue, item.DefaultValue)
	}

	// 分类区段随列表返回，供表格合并单元格展示
	assert.Equal(t, [][2]int{{0, 1}, {2, 2}}, listed.CategorySpans)
}

// TestParameterSaveReplaces 再次保存整体替换，不残留旧行.
func TestParameterSaveReplaces(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "EN 50549-1")
	svc := NewParameterService(ctx)

	first := []types.ParameterItem{
		{Name: "过压一段", DefaultValue: "253"},
		{Name: "过压二段", DefaultValue: "264.5"},
	}
	_, err := svc.Save(ctx, regID, types.SaveParametersRequest{Parameters: first}, "tester")
	require.NoError(t, err)

	second := []types.ParameterItem{{Name: "欠频一段", DefaultValue: "47.5"}}
	_, err = svc.Save(ctx, regID, types.SaveParametersRequest{Parameters: second}, "tester")
	require.NoError(t, err)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	require.Len(t, listed.Parameters, 1)
	assert.Equal(t, "欠频一段", listed.Parameters[0].Name)
	assert.Equal(t, 0, listed.Parameters[0].RowOrder)
}

// TestCategorySpans 空分类延续上一分类，非空且不同则开新段.
func TestCategorySpans(t *testing.T) {
	spans := CategorySpans([]string{"A", "A", "", "B", "B", "B"})
	assert.Equal(t, [][2]int{{0, 2}, {3, 5}}, spans)

	assert.Empty(t, CategorySpans(nil))
	assert.Equal(t, [][2]int{{0, 0}}, CategorySpans([]string{"单段"}))
}

// TestParameterImportExcelExtended 扩展表头（9 列）按列号解析，首行忽略，空分类向下延续.
func TestParameterImportExcelExtended(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "CEI 0-21")
	svc := NewParameterService(ctx)

	path := filepath.Join(t.TempDir(), "params.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"分类", "参数名", "默认值", "上限", "下限", "单位", "系数", "协议地址", "备注"},
		{"电压保护", "过压一段", "253", "270", "230", "V", "10", "0x3010", "一级阈值"},
		{"", "过压二段", "264.5", "270", "230", "V", "10", "0x3011", ""},
		{"频率保护", "过频一段", "51.5", "52", "50.2", "Hz", "100", "0x3020", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	resp, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{SourcePath: path}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Rows)
	assert.Zero(t, resp.ImagesUnresolved)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	require.Len(t, listed.Parameters, 3)

	// 空分类单元格延续上一行的分类
	assert.Equal(t, "电压保护", listed.Parameters[1].Category)
	assert.Equal(t, "0x3011", listed.Parameters[1].Protocol)
	assert.Equal(t, "频率保护", listed.Parameters[2].Category)
	assert.Equal(t, "一级阈值", listed.Parameters[0].Description)
}

// TestParameterImportExcelRepeat 同一份表重复导入是替换，不追加也不改变内容.
func TestParameterImportExcelRepeat(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "VDE-AR-N 4110")
	svc := NewParameterService(ctx)

	path := filepath.Join(t.TempDir(), "params.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"分类", "参数名", "默认值", "上限", "下限", "单位", "系数", "协议地址", "备注"},
		{"电压保护", "过压一段", "253", "270", "230", "V", "10", "0x3010", ""},
		{"", "过压二段", "264.5", "270", "230", "V", "10", "0x3011", ""},
		{"频率保护", "过频一段", "51.5", "52", "50.2", "Hz", "100", "0x3020", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	first, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{SourcePath: path}, "tester")
	require.NoError(t, err)

	second, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{SourcePath: path}, "tester")
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	require.Len(t, listed.Parameters, 3)

	for i, item := range listed.Parameters {
		assert.Equal(t, i, item.RowOrder)
	}

	assert.Equal(t, "过压一段", listed.Parameters[0].Name)
	assert.Equal(t, "电压保护", listed.Parameters[1].Category)

	var count int64
	require.NoError(t, mustDB(t, ctx).Model(&model.Parameter{}).
		Where("regulation_id = ?", regID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

// TestParameterImportEmbeddedImages 锚定图片精确落行，DISPIMG 引用与包内媒体
// 按序配对，配不上的行打未提取标记.
func TestParameterImportEmbeddedImages(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "EN 50549-10")
	svc := NewParameterService(ctx)

	path := filepath.Join(t.TempDir(), "params.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"分类", "参数名", "默认值", "上限", "下限", "单位", "系数", "协议地址", "备注"},
		{"电压保护", "过压一段", "253", "270", "230", "V", "10", "0x3010", "见图示"},
		{"电压保护", "过压二段", "264.5", "270", "230", "V", "10", "0x3011", ""},
		{"频率保护", "过频一段", "51.5", "52", "50.2", "Hz", "100", "0x3020", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	// 第 2 行挂一张锚定图片
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	require.NoError(t, f.AddPictureFromBytes("Sheet1", "J2", &excelize.Picture{
		Extension: ".png",
		File:      buf.Bytes(),
	}))

	// 第 3、4 行备注列是 WPS 嵌入图片公式，包内只有一份媒体可供配对
	require.NoError(t, f.SetCellFormula("Sheet1", "I3", `_xlfn.DISPIMG("ID_1A2B3C",1)`))
	require.NoError(t, f.SetCellFormula("Sheet1", "I4", `_xlfn.DISPIMG("ID_4D5E6F",1)`))

	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	resp, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{SourcePath: path}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, 2, resp.ImagesExtracted)
	assert.Equal(t, 1, resp.ImagesUnresolved)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	require.Len(t, listed.Parameters, 3)

	// 锚定图片按单元格行号落到对应参数行
	_, err = os.Stat(listed.Parameters[0].ImagePath)
	assert.NoError(t, err)

	// DISPIMG 行与包内媒体按序配对落盘
	_, err = os.Stat(listed.Parameters[1].ImagePath)
	assert.NoError(t, err)

	// 媒体不够配对的行打未提取标记
	assert.Equal(t, "[图片未提取]", listed.Parameters[2].ImagePath)

	// 图片公式单元格在文本列落占位串
	assert.Equal(t, "[图片]", listed.Parameters[1].Description)
	assert.Equal(t, "[图片]", listed.Parameters[2].Description)
}

// TestParameterImportExcelLegacy 7 列旧版表缺少系数与协议列，备注落在第 7 列.
func TestParameterImportExcelLegacy(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "G99")
	svc := NewParameterService(ctx)

	path := filepath.Join(t.TempDir(), "legacy.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"分类", "参数名", "默认值", "上限", "下限", "单位", "备注"},
		{"电压保护", "过压一段", "262", "270", "230", "V", "按 G99 附录"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	resp, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{SourcePath: path}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Rows)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	require.Len(t, listed.Parameters, 1)
	assert.Equal(t, "按 G99 附录", listed.Parameters[0].Description)
	assert.Empty(t, listed.Parameters[0].Protocol)
	assert.Empty(t, listed.Parameters[0].Coefficient)
}

// TestParameterImportMissingFile 源文件不存在时报 400，不落任何数据.
func TestParameterImportMissingFile(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "IEEE 1547")
	svc := NewParameterService(ctx)

	_, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{
		SourcePath: filepath.Join(t.TempDir(), "nope.xlsx"),
	}, "tester")
	require.Error(t, err)

	listed, err := svc.List(ctx, regID)
	require.NoError(t, err)
	assert.Empty(t, listed.Parameters)
}

// TestParameterImportRecordsHistory Excel 导入在变更历史里落 import 记录.
func TestParameterImportRecordsHistory(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "AS 4777.2")
	svc := NewParameterService(ctx)

	path := filepath.Join(t.TempDir(), "params.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"分类", "参数名", "默认值", "上限", "下限", "单位", "备注"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"电压保护", "过压一段", "253", "270", "230", "V", ""}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := svc.ImportExcel(ctx, regID, types.ImportParametersRequest{SourcePath: path}, "tester")
	require.NoError(t, err)

	var count int64
	require.NoError(t, mustDB(t, ctx).Model(&model.ChangeHistory{}).
		Where("regulation_id = ? AND action = ?", regID, model.ActionImport).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
