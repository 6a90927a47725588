package types

// CreateRegulationRequest 新建法规请求，Code 全局唯一.
type CreateRegulationRequest struct {
	Code          string   `binding:"required" json:"code" rule:"min=1,max=128"`
	Name          string   `binding:"required" json:"name" rule:"min=1,max=512"`
	Country       string   `json:"country,omitempty"`
	Category      string   `json:"category,omitempty"`
	Status        string   `json:"status,omitempty" rule:"omitempty,oneof=draft active deprecated archived"`
	Version       string   `json:"version,omitempty"`
	Description   string   `json:"description,omitempty"`
	EffectiveDate string   `json:"effective_date,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// UpdateRegulationRequest 部分更新请求，nil 字段不变；Tags 非 nil 时整体替换标签集合.
type UpdateRegulationRequest struct {
	Name          *string   `json:"name,omitempty"`
	Country       *string   `json:"country,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Status        *string   `json:"status,omitempty" rule:"omitempty,oneof=draft active deprecated archived"`
	Version       *string   `json:"version,omitempty"`
	Description   *string   `json:"description,omitempty"`
	EffectiveDate *string   `json:"effective_date,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
}

// DeleteRegulationResponse 删除结果. 行数据已删除，托管目录清理失败时
// 以警告列出失败原因.
type DeleteRegulationResponse struct {
	ID       uint     `json:"id"`
	Warnings []string `json:"warnings,omitempty"`
}

// ListRegulationsRequest 列表过滤条件，全部可选，组合为 AND.
type ListRegulationsRequest struct {
	Country  string   `form:"country"  json:"country,omitempty"`
	Category string   `form:"category" json:"category,omitempty"`
	Status   string   `form:"status"   json:"status,omitempty"`
	Tags     []string `form:"tags"     json:"tags,omitempty"`
	// Keyword 对编号、名称、描述做模糊匹配
	Keyword string `form:"keyword" json:"keyword,omitempty"`
	Page    int    `form:"page"    json:"page,omitempty"`
	Size    int    `form:"size"    json:"size,omitempty"`
}

// RegulationInfo 法规响应体.
type RegulationInfo struct {
	ID            uint     `json:"id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Country       string   `json:"country,omitempty"`
	Category      string   `json:"category,omitempty"`
	Status        string   `json:"status,omitempty"`
	Version       string   `json:"version,omitempty"`
	Description   string   `json:"description,omitempty"`
	EffectiveDate string   `json:"effective_date,omitempty"`
	Tags          []string `json:"tags,omitempty"`

	Documents []DocumentInfo `json:"documents,omitempty"`
	CodeFiles []CodeFileInfo `json:"code_files,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListRegulationsResponse 列表响应，按创建时间倒序.
type ListRegulationsResponse struct {
	Total       int              `json:"total"`
	Page        int              `json:"page"`
	Size        int              `json:"size"`
	Regulations []RegulationInfo `json:"regulations"`
}

// DocumentInfo 文档响应体.
type DocumentInfo struct {
	ID          uint   `json:"id"`
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	FileType    string `json:"file_type,omitempty"`
	Size        int64  `json:"size"`
	Hash        string `json:"hash,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// CodeFileInfo 代码文件响应体.
type CodeFileInfo struct {
	ID          uint   `json:"id"`
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	Language    string `json:"language,omitempty"`
	Version     string `json:"version,omitempty"`
	Size        int64  `json:"size"`
	Hash        string `json:"hash,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// AddFileRequest 挂接文档/代码文件请求，SourcePath 为本机可读路径，副本复制进托管存储.
type AddFileRequest struct {
	SourcePath  string `binding:"required" json:"source_path"`
	Description string `json:"description,omitempty"`
	// Language、Version 仅代码文件使用
	Language string `json:"language,omitempty"`
	Version  string `json:"version,omitempty"`
}

// UpdateCodeFileRequest 修改代码文件元数据，nil 字段不改.
type UpdateCodeFileRequest struct {
	Version     *string `json:"version,omitempty"`
	Description *string `json:"description,omitempty"`
}
