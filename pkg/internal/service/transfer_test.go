package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/internal/types"
)

func seedTransferData(t *testing.T, ctx context.Context) {
	t.Helper()

	regSvc := NewRegulationService(ctx)
	paramSvc := NewParameterService(ctx)

	info, err := regSvc.Create(ctx, types.CreateRegulationRequest{
		Code:    "VDE-AR-N 4105",
		Name:    "德国低压并网",
		Country: "DE",
		Tags:    []string{"德国", "低压"},
	}, "tester")
	require.NoError(t, err)

	_, err = paramSvc.Save(ctx, info.ID, types.SaveParametersRequest{
		Parameters: []types.ParameterItem{
			{Name: "过压一段", Protocol: "0x3010", DefaultValue: "253"},
			{Name: "过压二段", Protocol: "0x3011", DefaultValue: "264.5"},
		},
	}, "tester")
	require.NoError(t, err)

	_, err = regSvc.Create(ctx, types.CreateRegulationRequest{
		Code:    "G99",
		Name:    "英国并网",
		Country: "GB",
	}, "tester")
	require.NoError(t, err)
}

// TestTransferJSONRoundTrip JSON 导出带参数，导入到空库完整还原.
func TestTransferJSONRoundTrip(t *testing.T) {
	srcCtx := newTestContext(t)
	seedTransferData(t, srcCtx)

	exported, err := NewTransferService(srcCtx).Export(srcCtx, types.ExportRegulationsRequest{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, 2, exported.Count)
	assert.NotEmpty(t, exported.BundleID)

	dstCtx := newTestContext(t)
	dstTransfer := NewTransferService(dstCtx)

	stats, err := dstTransfer.Import(dstCtx, types.ImportRegulationsRequest{SourcePath: exported.Path}, "importer")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Success)
	assert.Zero(t, stats.Failed)

	restored, err := NewRegulationService(dstCtx).GetByCode(dstCtx, "VDE-AR-N 4105")
	require.NoError(t, err)
	assert.Equal(t, "德国低压并网", restored.Name)
	assert.ElementsMatch(t, []string{"德国", "低压"}, restored.Tags)

	params, err := NewParameterService(dstCtx).List(dstCtx, restored.ID)
	require.NoError(t, err)
	require.Len(t, params.Parameters, 2)
	assert.Equal(t, "0x3010", params.Parameters[0].Protocol)
}

// TestTransferImportIdempotent 重复导入同一包时已有编号跳过，overwrite 才覆盖.
func TestTransferImportIdempotent(t *testing.T) {
	ctx := newTestContext(t)
	seedTransferData(t, ctx)
	svc := NewTransferService(ctx)

	exported, err := svc.Export(ctx, types.ExportRegulationsRequest{Format: "json"})
	require.NoError(t, err)

	stats, err := svc.Import(ctx, types.ImportRegulationsRequest{SourcePath: exported.Path}, "importer")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Zero(t, stats.Success)

	stats, err = svc.Import(ctx, types.ImportRegulationsRequest{SourcePath: exported.Path, Overwrite: true}, "importer")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Success)
	assert.Zero(t, stats.Skipped)

	// 覆盖导入不产生重复记录
	listed, err := NewRegulationService(ctx).List(ctx, types.ListRegulationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, listed.Total)
}

// TestTransferExcelRoundTrip Excel 导出单表头，再导入可还原法规主数据.
func TestTransferExcelRoundTrip(t *testing.T) {
	srcCtx := newTestContext(t)
	seedTransferData(t, srcCtx)

	exported, err := NewTransferService(srcCtx).Export(srcCtx, types.ExportRegulationsRequest{Format: "excel"})
	require.NoError(t, err)
	assert.Equal(t, 2, exported.Count)

	dstCtx := newTestContext(t)

	stats, err := NewTransferService(dstCtx).Import(dstCtx, types.ImportRegulationsRequest{
		SourcePath: exported.Path,
		Format:     "excel",
	}, "importer")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Success)

	restored, err := NewRegulationService(dstCtx).GetByCode(dstCtx, "G99")
	require.NoError(t, err)
	assert.Equal(t, "GB", restored.Country)
}

// TestTransferExportFiltered 导出遵守列表过滤条件.
func TestTransferExportFiltered(t *testing.T) {
	ctx := newTestContext(t)
	seedTransferData(t, ctx)

	exported, err := NewTransferService(ctx).Export(ctx, types.ExportRegulationsRequest{
		Format:  "json",
		Country: "DE",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, exported.Count)
}

// TestTransferImportMissingFile 源文件缺失返回 400.
func TestTransferImportMissingFile(t *testing.T) {
	ctx := newTestContext(t)

	_, err := NewTransferService(ctx).Import(ctx, types.ImportRegulationsRequest{
		SourcePath: "/nonexistent/bundle.json",
	}, "importer")
	require.Error(t, err)
}
