package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

const (
	// 模板前 4 行是固定头部，原样输出
	templateHeaderLines = 4
	// 数据行解析失败时的上下限兜底值
	fallbackMin = "32768"
	fallbackMax = "32767"
)

// codegenLineRe 匹配形如 `{ 默认值 , 下限 , 上限 },  // 协议位 说明` 的数据行.
var codegenLineRe = regexp.MustCompile(`^\s*\{\s*([^,]+?)\s*,\s*([^,]+?)\s*,\s*([^}]+?)\s*\}\s*,?\s*//\s*(.*)$`)

// CodegenService 按参数表重写 C 模板中的默认值数组.
type CodegenService struct {
	*ParameterService
}

// NewCodegenService 从 context 获取依赖实例.
func NewCodegenService(c context.Context) *CodegenService {
	return &CodegenService{NewParameterService(c)}
}

// Generate 读取模板、按协议位映射替换默认值后输出新内容.
// 前 4 行与 "};" 及之后的行原样透传，数据行保留原上下限与整条注释.
func (g *CodegenService) Generate(ctx context.Context, regulationID uint, req types.GenerateCodeRequest, operator string) (types.GenerateCodeResponse, error) {
	if _, err := g.load(ctx, regulationID, false); err != nil {
		return types.GenerateCodeResponse{}, err
	}

	var params []model.Parameter

	err := g.dbClient.GetDB().WithContext(ctx).
		Where("regulation_id = ?", regulationID).
		Order("row_order ASC").
		Find(&params).Error
	if err != nil {
		return types.GenerateCodeResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	raw, err := os.ReadFile(req.TemplatePath)
	if err != nil {
		g.publishCodegen(ctx, queue.TopicCodegenFailed, queue.CodegenPayload{
			RegulationID: regulationID,
			Error:        err.Error(),
		})

		return types.GenerateCodeResponse{}, errors.ErrSourceFile.WithReason(err.Error())
	}

	mapping, skipped := protocolDefaults(params)

	content, rows := rewriteTemplate(string(raw), mapping)

	if req.OutputPath != "" {
		if err := os.WriteFile(req.OutputPath, []byte(content), 0o644); err != nil {
			return types.GenerateCodeResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
		}
	}

	g.publishCodegen(ctx, queue.TopicCodegenGenerated, queue.CodegenPayload{
		RegulationID: regulationID,
		OutputPath:   req.OutputPath,
		Rows:         rows,
	})

	g.recordHistory(ctx, model.ChangeHistory{
		RegulationID: regulationID,
		Action:       model.ActionUpdate,
		Field:        "codegen",
		Operator:     operator,
		Remark:       remarkRowCount(rows),
	})

	return types.GenerateCodeResponse{
		RegulationID: regulationID,
		Rows:         rows,
		Skipped:      skipped,
		OutputPath:   req.OutputPath,
		Content:      content,
	}, nil
}

// protocolDefaults 把参数行折算成 协议位 -> 计算后默认值 的映射.
// 协议位为空或 "-" 的行跳过；默认值为空或 "-" 算 0；
// 有非零系数时取 round(默认值/系数)，否则 round(默认值)；解析失败一律软失败为 0.
func protocolDefaults(params []model.Parameter) (map[string]int, int) {
	mapping := make(map[string]int, len(params))
	skipped := 0

	for _, param := range params {
		protocol := strings.TrimSpace(param.Protocol)
		if protocol == "" || protocol == "-" {
			skipped++

			continue
		}

		mapping[protocol] = computeDefault(param.DefaultValue, param.Coefficient)
	}

	return mapping, skipped
}

func computeDefault(defaultValue, coefficient string) int {
	def := strings.TrimSpace(defaultValue)
	if def == "" || def == "-" {
		return 0
	}

	d, err := strconv.ParseFloat(def, 64)
	if err != nil {
		return 0
	}

	coef := strings.TrimSpace(coefficient)
	if coef != "" && coef != "-" {
		c, err := strconv.ParseFloat(coef, 64)
		if err == nil && c != 0 {
			return int(math.Round(d / c))
		}
	}

	return int(math.Round(d))
}

// rewriteTemplate 逐行重写模板，返回新内容与改写的数据行数.
func rewriteTemplate(raw string, mapping map[string]int) (string, int) {
	lines := strings.Split(raw, "\n")

	var sb strings.Builder

	rows := 0
	done := false

	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")

		switch {
		case i < templateHeaderLines || done:
			sb.WriteString(trimmed)
		case strings.TrimSpace(trimmed) == "};":
			done = true

			sb.WriteString(trimmed)
		default:
			if m := codegenLineRe.FindStringSubmatch(trimmed); m != nil {
				sb.WriteString(rewriteDataLine(m, mapping))

				rows++
			} else {
				sb.WriteString(trimmed)
			}
		}

		if i < len(lines)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String(), rows
}

// rewriteDataLine 替换数据行默认值，保留原有上下限与整条注释.
// 注释首个 token 是协议位，映射缺失时默认值写 0.
func rewriteDataLine(m []string, mapping map[string]int) string {
	minVal, maxVal, comment := m[2], m[3], m[4]
	if strings.TrimSpace(minVal) == "" {
		minVal = fallbackMin
	}

	if strings.TrimSpace(maxVal) == "" {
		maxVal = fallbackMax
	}

	protocol := ""
	if fields := strings.Fields(comment); len(fields) > 0 {
		protocol = fields[0]
	}

	value := mapping[protocol]

	return fmt.Sprintf("    {   %-7s ,   %-6s ,   %-6s },   // %s",
		formatCValue(value), strings.TrimSpace(minVal), strings.TrimSpace(maxVal), comment)
}

// formatCValue 负值带 (Uint16) 强转，与既有固件代码保持一致.
func formatCValue(v int) string {
	if v < 0 {
		return fmt.Sprintf("(Uint16)%d", v)
	}

	return strconv.Itoa(v)
}

func (g *CodegenService) publishCodegen(ctx context.Context, topic string, payload queue.CodegenPayload) {
	if err := queue.PublishEvent(ctx, g.mqClient, topic, payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish codegen event failed")
	}
}
