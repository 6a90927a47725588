package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
)

// TestComputeDefault 默认值按系数取整换算，解析失败软失败为 0.
func TestComputeDefault(t *testing.T) {
	cases := []struct {
		name         string
		defaultValue string
		coefficient  string
		want         int
	}{
		{"系数换算", "120", "10", 12},
		{"四舍五入", "264.5", "10", 26},
		{"无系数", "51.5", "", 52},
		{"系数占位符", "253", "-", 253},
		{"系数为零回退", "253", "0", 253},
		{"默认值占位符", "-", "10", 0},
		{"默认值为空", "", "10", 0},
		{"默认值不是数字", "n/a", "10", 0},
		{"负值", "-30", "10", -3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, computeDefault(tc.defaultValue, tc.coefficient))
		})
	}
}

// TestProtocolDefaults 协议位为空或 "-" 的行不进映射，计入跳过数.
func TestProtocolDefaults(t *testing.T) {
	params := []model.Parameter{
		{Protocol: "0x3010", DefaultValue: "253", Coefficient: "10"},
		{Protocol: "-", DefaultValue: "100"},
		{Protocol: "", DefaultValue: "100"},
		{Protocol: "0x3020", DefaultValue: "51.5", Coefficient: "100"},
	}

	mapping, skipped := protocolDefaults(params)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, map[string]int{"0x3010": 25, "0x3020": 52}, mapping)
}

func TestFormatCValue(t *testing.T) {
	assert.Equal(t, "0", formatCValue(0))
	assert.Equal(t, "253", formatCValue(253))
	assert.Equal(t, "(Uint16)-3", formatCValue(-3))
}

const codegenTemplate = `// Parameter defaults
#include "param.h"

const ParamEntry gParamTable[] = {
    {   0       ,   230    ,   270    },   // 0x3010 Over-voltage stage 1
    {   0       ,   230    ,   270    },   // 0x3011 Over-voltage stage 2
    {   0       ,          ,          },   // 0x3099 Reserved
};
// trailing comment stays as is
    {   9       ,   9      ,   9      },   // 0x3010 not a data line after table end
`

// TestRewriteTemplate 数据行替换默认值，未知协议位写 0，表结束后的行原样透传.
func TestRewriteTemplate(t *testing.T) {
	mapping := map[string]int{"0x3010": 25, "0x3011": -3}

	content, rows := rewriteTemplate(codegenTemplate, mapping)
	assert.Equal(t, 3, rows)

	lines := strings.Split(content, "\n")

	// 前 4 行固定头部原样保留
	assert.Equal(t, "// Parameter defaults", lines[0])
	assert.Equal(t, "const ParamEntry gParamTable[] = {", lines[3])

	assert.Equal(t, "    {   25      ,   230    ,   270    },   // 0x3010 Over-voltage stage 1", lines[4])
	assert.Equal(t, "    {   (Uint16)-3 ,   230    ,   270    },   // 0x3011 Over-voltage stage 2", lines[5])

	// 未知协议位默认值 0，缺失的上下限落兜底值
	assert.Equal(t, "    {   0       ,   32768  ,   32767  },   // 0x3099 Reserved", lines[6])

	// "};" 之后的内容不再当数据行处理
	assert.Equal(t, "};", lines[7])
	assert.Equal(t, "// trailing comment stays as is", lines[8])
	assert.Contains(t, lines[9], "{   9       ,   9      ,   9      }")
}

// TestCodegenGenerate 全流程：参数入库、模板替换、输出落盘.
func TestCodegenGenerate(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "VDE-AR-N 4110")
	svc := NewCodegenService(ctx)

	_, err := NewParameterService(ctx).Save(ctx, regID, types.SaveParametersRequest{
		Parameters: []types.ParameterItem{
			{Name: "过压一段", Protocol: "0x3010", DefaultValue: "253", Coefficient: "10"},
			{Name: "内部参数", Protocol: "-", DefaultValue: "1"},
		},
	}, "tester")
	require.NoError(t, err)

	dir := t.TempDir()
	tplPath := filepath.Join(dir, "param_table.c")
	outPath := filepath.Join(dir, "param_table_out.c")
	require.NoError(t, os.WriteFile(tplPath, []byte(codegenTemplate), 0o644))

	resp, err := svc.Generate(ctx, regID, types.GenerateCodeRequest{
		TemplatePath: tplPath,
		OutputPath:   outPath,
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, 1, resp.Skipped)
	assert.Contains(t, resp.Content, "{   25      ,   230    ,   270    },   // 0x3010")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, resp.Content, string(written))
}

// TestCodegenGenerateTemplateMissing 模板缺失返回 400.
func TestCodegenGenerateTemplateMissing(t *testing.T) {
	ctx := newTestContext(t)
	regID := seedRegulation(t, ctx, "G98")
	svc := NewCodegenService(ctx)

	_, err := svc.Generate(ctx, regID, types.GenerateCodeRequest{
		TemplatePath: filepath.Join(t.TempDir(), "missing.c"),
	}, "tester")
	require.Error(t, err)
	assert.Equal(t, 400, errors.AsStatusError(err).Code)
}
