package service

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ctxPkg "github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	"github.com/yeisme/regvault/pkg/rule"
)

func strPtr(s string) *string { return &s }

// TestRegulationCreateDuplicateCode 同编号重复创建返回 409.
func TestRegulationCreateDuplicateCode(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	req := types.CreateRegulationRequest{Code: "VDE-AR-N 4105", Name: "德国低压并网"}

	info, err := svc.Create(ctx, req, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, info.Status)

	_, err = svc.Create(ctx, req, "tester")
	require.Error(t, err)
	assert.Equal(t, 409, errors.AsStatusError(err).Code)
}

// TestRegulationCreateDeprecatedStatus 已废止是合法状态，校验通过且原样落库.
func TestRegulationCreateDeprecatedStatus(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	req := types.CreateRegulationRequest{
		Code:   "VDEW 2001",
		Name:   "德国并网旧版导则",
		Status: model.StatusDeprecated,
	}
	require.NoError(t, rule.ValidateStruct(req))

	info, err := svc.Create(ctx, req, "tester")
	require.NoError(t, err)
	assert.Equal(t, "deprecated", info.Status)
}

// TestRegulationUpdateTagsReplace Tags 非 nil 时整体替换标签集合.
func TestRegulationUpdateTagsReplace(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	info, err := svc.Create(ctx, types.CreateRegulationRequest{
		Code: "EN 50549-1",
		Name: "欧洲并网",
		Tags: []string{"欧洲", "低压"},
	}, "tester")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"欧洲", "低压"}, info.Tags)

	updated, err := svc.Update(ctx, info.ID, types.UpdateRegulationRequest{
		Status: strPtr(model.StatusActive),
		Tags:   &[]string{"低压"},
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, updated.Status)
	assert.Equal(t, []string{"低压"}, updated.Tags)
}

// TestRegulationUpdateNotFound 更新不存在的法规返回 404.
func TestRegulationUpdateNotFound(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	_, err := svc.Update(ctx, 999, types.UpdateRegulationRequest{Name: strPtr("x")}, "tester")
	require.Error(t, err)
	assert.Equal(t, 404, errors.AsStatusError(err).Code)
}

// TestRegulationListFilters 国家/状态/关键字过滤与分页.
func TestRegulationListFilters(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	seed := []types.CreateRegulationRequest{
		{Code: "VDE-AR-N 4105", Name: "德国低压并网", Country: "DE", Status: model.StatusActive},
		{Code: "VDE-AR-N 4110", Name: "德国中压并网", Country: "DE", Status: model.StatusDraft},
		{Code: "G99", Name: "英国并网", Country: "GB", Status: model.StatusActive},
	}
	for _, req := range seed {
		_, err := svc.Create(ctx, req, "tester")
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, types.ListRegulationsRequest{Country: "DE"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = svc.List(ctx, types.ListRegulationsRequest{Country: "DE", Status: model.StatusActive})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "VDE-AR-N 4105", resp.Regulations[0].Code)

	resp, err = svc.List(ctx, types.ListRegulationsRequest{Keyword: "中压"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "VDE-AR-N 4110", resp.Regulations[0].Code)

	resp, err = svc.List(ctx, types.ListRegulationsRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Regulations, 1)
}

// TestRegulationListByTag 按标签过滤经由关联表连接查询.
func TestRegulationListByTag(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	_, err := svc.Create(ctx, types.CreateRegulationRequest{
		Code: "AS 4777.2", Name: "澳洲并网", Tags: []string{"澳洲", "逆变器"},
	}, "tester")
	require.NoError(t, err)

	_, err = svc.Create(ctx, types.CreateRegulationRequest{
		Code: "IEEE 1547", Name: "美国并网", Tags: []string{"美国"},
	}, "tester")
	require.NoError(t, err)

	resp, err := svc.List(ctx, types.ListRegulationsRequest{Tags: []string{"逆变器"}})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "AS 4777.2", resp.Regulations[0].Code)
}

// TestRegulationDeleteCascade 删除清掉参数与文件记录，历史留下快照，编号可复用.
func TestRegulationDeleteCascade(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)
	paramSvc := NewParameterService(ctx)

	info, err := svc.Create(ctx, types.CreateRegulationRequest{Code: "CEI 0-21", Name: "意大利并网"}, "tester")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "manual.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf content"), 0o644))

	_, err = svc.AddDocument(ctx, info.ID, types.AddFileRequest{SourcePath: src}, "tester")
	require.NoError(t, err)

	_, err = paramSvc.Save(ctx, info.ID, types.SaveParametersRequest{
		Parameters: []types.ParameterItem{{Name: "过压一段", DefaultValue: "253"}},
	}, "tester")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, info.ID, "tester")
	require.NoError(t, err)
	assert.Empty(t, deleted.Warnings)

	_, err = svc.Get(ctx, info.ID)
	assert.Equal(t, 404, errors.AsStatusError(err).Code)

	db := mustDB(t, ctx)

	var paramCount, docCount int64
	require.NoError(t, db.Model(&model.Parameter{}).Where("regulation_id = ?", info.ID).Count(&paramCount).Error)
	require.NoError(t, db.Model(&model.RegulationDocument{}).Where("regulation_id = ?", info.ID).Count(&docCount).Error)
	assert.Zero(t, paramCount)
	assert.Zero(t, docCount)

	var histCount int64
	require.NoError(t, db.Model(&model.ChangeHistory{}).
		Where("regulation_id = ? AND action = ?", info.ID, model.ActionDelete).
		Count(&histCount).Error)
	assert.EqualValues(t, 1, histCount)

	// 编号随删除释放
	_, err = svc.Create(ctx, types.CreateRegulationRequest{Code: "CEI 0-21", Name: "意大利并网 新版"}, "tester")
	assert.NoError(t, err)
}

// TestRegulationDeleteWarnsOnDirCleanup 目录清理失败不阻断删除，以警告随结果返回.
func TestRegulationDeleteWarnsOnDirCleanup(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	info, err := svc.Create(ctx, types.CreateRegulationRequest{Code: "NB/T 32004", Name: "逆变器技术规范"}, "tester")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "spec.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf"), 0o644))

	_, err = svc.AddDocument(ctx, info.ID, types.AddFileRequest{SourcePath: src}, "tester")
	require.NoError(t, err)

	// 去掉目录写权限让清理失败
	docDir := filepath.Join(ctxPkg.GetFilesClient(ctx).DocumentsDir(), strconv.FormatUint(uint64(info.ID), 10))
	require.NoError(t, os.Chmod(docDir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(docDir, 0o755) })

	deleted, err := svc.Delete(ctx, info.ID, "tester")
	require.NoError(t, err)
	require.NotEmpty(t, deleted.Warnings)
	assert.Contains(t, deleted.Warnings[0], "remove managed dirs failed")

	// 行数据照常删除
	_, err = svc.Get(ctx, info.ID)
	assert.Equal(t, 404, errors.AsStatusError(err).Code)
}

// TestRegulationListNewestCreatedFirst 列表按创建时间倒序，更新不改变排位.
func TestRegulationListNewestCreatedFirst(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	for _, code := range []string{"G98", "G99", "G100"} {
		_, err := svc.Create(ctx, types.CreateRegulationRequest{Code: code, Name: "英国并网 " + code}, "tester")
		require.NoError(t, err)
	}

	// 更新最早创建的一条，排位不应因此前移
	first, err := svc.GetByCode(ctx, "G98")
	require.NoError(t, err)
	_, err = svc.Update(ctx, first.ID, types.UpdateRegulationRequest{Name: strPtr("英国小型发电 修订")}, "tester")
	require.NoError(t, err)

	resp, err := svc.List(ctx, types.ListRegulationsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Regulations, 3)
	assert.Equal(t, "G100", resp.Regulations[0].Code)
	assert.Equal(t, "G99", resp.Regulations[1].Code)
	assert.Equal(t, "G98", resp.Regulations[2].Code)
}

// TestRegulationAddDocumentCopies 挂接文档后托管目录里有独立副本.
func TestRegulationAddDocumentCopies(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	info, err := svc.Create(ctx, types.CreateRegulationRequest{Code: "G98", Name: "英国小型发电"}, "tester")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "notice.pdf")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0o644))

	doc, err := svc.AddDocument(ctx, info.ID, types.AddFileRequest{SourcePath: src, Description: "官方公告"}, "tester")
	require.NoError(t, err)
	assert.NotEqual(t, src, doc.FilePath)

	copied, err := os.ReadFile(doc.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), copied)

	// 源文件缺失时报 400
	_, err = svc.AddDocument(ctx, info.ID, types.AddFileRequest{SourcePath: filepath.Join(t.TempDir(), "missing.pdf")}, "tester")
	require.Error(t, err)
	assert.Equal(t, 400, errors.AsStatusError(err).Code)
}

// TestCodeFileUpdateMetadata 修改代码文件的版本号与描述，nil 字段不动.
func TestCodeFileUpdateMetadata(t *testing.T) {
	ctx := newTestContext(t)
	svc := NewRegulationService(ctx)

	info, err := svc.Create(ctx, types.CreateRegulationRequest{Code: "IEEE 1547", Name: "北美并网"}, "tester")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "param_table.c")
	require.NoError(t, os.WriteFile(src, []byte("int a;"), 0o644))

	cf, err := svc.AddCodeFile(ctx, info.ID, types.AddFileRequest{SourcePath: src, Version: "v1"}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "c", cf.Language)
	assert.Equal(t, "v1", cf.Version)

	err = svc.UpdateCodeFile(ctx, info.ID, cf.ID, types.UpdateCodeFileRequest{
		Version:     strPtr("v2"),
		Description: strPtr("过压段阈值修订"),
	})
	require.NoError(t, err)

	var stored model.CodeFile
	require.NoError(t, mustDB(t, ctx).First(&stored, cf.ID).Error)
	assert.Equal(t, "v2", stored.Version)
	assert.Equal(t, "过压段阈值修订", stored.Description)
	assert.Equal(t, "c", stored.Language)

	// 找不到文件返回 404
	err = svc.UpdateCodeFile(ctx, info.ID, cf.ID+99, types.UpdateCodeFileRequest{Version: strPtr("v3")})
	require.Error(t, err)
	assert.Equal(t, 404, errors.AsStatusError(err).Code)
}
