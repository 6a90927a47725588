package types

// ImportStats 批量导入统计.
type ImportStats struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportRegulationsRequest 批量导入请求，SourcePath 指向 JSON 或 xlsx 文件.
type ImportRegulationsRequest struct {
	SourcePath string `binding:"required" json:"source_path"`
	// Format json/excel，空则按扩展名推断
	Format string `json:"format,omitempty" rule:"omitempty,oneof=json excel"`
	// Overwrite 编号已存在时覆盖而不是跳过
	Overwrite bool `json:"overwrite,omitempty"`
}

// ExportRegulationsRequest 批量导出请求.
type ExportRegulationsRequest struct {
	// Format json/excel
	Format string `json:"format,omitempty" rule:"omitempty,oneof=json excel"`
	// 过滤条件与列表一致
	Country  string   `json:"country,omitempty"`
	Category string   `json:"category,omitempty"`
	Status   string   `json:"status,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Keyword  string   `json:"keyword,omitempty"`
}

// ExportRegulationsResponse 批量导出结果.
type ExportRegulationsResponse struct {
	// Path 导出文件在托管存储 exports/ 下的路径
	Path  string `json:"path"`
	Count int    `json:"count"`
	// BundleID 本次导出的唯一标识（ULID）
	BundleID string `json:"bundle_id"`
}

// RegulationExport 导出文件中单条法规的形状，参数随法规一起带出.
type RegulationExport struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Country       string          `json:"country,omitempty"`
	Category      string          `json:"category,omitempty"`
	Status        string          `json:"status,omitempty"`
	Version       string          `json:"version,omitempty"`
	Description   string          `json:"description,omitempty"`
	EffectiveDate string          `json:"effective_date,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Parameters    []ParameterItem `json:"parameters,omitempty"`
}
