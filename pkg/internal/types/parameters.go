package types

// ParameterItem 单条参数行.
type ParameterItem struct {
	RowOrder     int    `json:"row_order"`
	Category     string `json:"category,omitempty"`
	Name         string `json:"name"`
	Protocol     string `json:"protocol,omitempty"`
	MinValue     string `json:"min_value,omitempty"`
	MaxValue     string `json:"max_value,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Coefficient  string `json:"coefficient,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Description  string `json:"description,omitempty"`
	ImagePath    string `json:"image_path,omitempty"`
}

// SaveParametersRequest 参数表整体保存请求，按 RowOrder 全量替换已有参数.
type SaveParametersRequest struct {
	Parameters []ParameterItem `binding:"required" json:"parameters"`
}

// ListParametersResponse 参数列表响应，按 RowOrder 升序.
type ListParametersResponse struct {
	RegulationID uint            `json:"regulation_id"`
	Parameters   []ParameterItem `json:"parameters"`
	// CategorySpans 分类列的纵向合并区段 [起始行, 结束行]，供表格展示
	CategorySpans [][2]int `json:"category_spans,omitempty"`
}

// ImportParametersRequest Excel 参数导入请求.
type ImportParametersRequest struct {
	// SourcePath xlsx 文件路径
	SourcePath string `binding:"required" json:"source_path"`
	// Sheet 工作表名，空则取第一个
	Sheet string `json:"sheet,omitempty"`
}

// ImportParametersResponse Excel 参数导入结果.
type ImportParametersResponse struct {
	RegulationID uint `json:"regulation_id"`
	// Rows 导入的参数行数
	Rows int `json:"rows"`
	// ImagesExtracted 成功提取并落盘的嵌入图片数
	ImagesExtracted int `json:"images_extracted"`
	// ImagesUnresolved 标记为 "[图片未提取]" 的单元格数
	ImagesUnresolved int `json:"images_unresolved"`
}
