package types

// GenerateCodeRequest C 参数数组生成请求.
type GenerateCodeRequest struct {
	// TemplatePath C 模板文件路径，保留前 4 行与结尾 "};"
	TemplatePath string `binding:"required" json:"template_path"`
	// OutputPath 生成文件落盘路径，空则只返回内容不落盘
	OutputPath string `json:"output_path,omitempty"`
}

// GenerateCodeResponse C 参数数组生成结果.
type GenerateCodeResponse struct {
	RegulationID uint `json:"regulation_id"`
	// Rows 写入数组的参数行数（跳过无协议地址的行）
	Rows int `json:"rows"`
	// Skipped 因协议地址为 "-" 或空被跳过的行数
	Skipped    int    `json:"skipped"`
	OutputPath string `json:"output_path,omitempty"`
	Content    string `json:"content"`
}
