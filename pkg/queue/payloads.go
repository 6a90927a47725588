package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 法规领域 --------------------------

// RegulationChangedPayload 法规创建/更新/删除事件.
type RegulationChangedPayload struct {
	RegulationID uint   `json:"regulation_id"`
	Code         string `json:"code"`
	Name         string `json:"name,omitempty"`
	Action       string `json:"action"` // create/update/delete
	// Fields 更新时变更的字段名列表
	Fields   []string `json:"fields,omitempty"`
	Operator string   `json:"operator,omitempty"`
}

// RegulationImportedPayload 批量导入完成事件.
type RegulationImportedPayload struct {
	Source   string `json:"source"` // json/excel
	Total    int    `json:"total"`
	Success  int    `json:"success"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
	Operator string `json:"operator,omitempty"`
}

// -------------------------- 托管文件领域 --------------------------

// FileChangedPayload 文档/代码文件副本变更事件.
type FileChangedPayload struct {
	RegulationID uint   `json:"regulation_id"`
	FileID       uint   `json:"file_id"`
	FileName     string `json:"file_name"`
	Kind         string `json:"kind"` // document/code
	Hash         string `json:"hash,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Operator     string `json:"operator,omitempty"`
}

// -------------------------- 参数领域 --------------------------

// ParametersSavedPayload 参数表整体替换保存事件.
type ParametersSavedPayload struct {
	RegulationID uint   `json:"regulation_id"`
	Count        int    `json:"count"`
	Source       string `json:"source,omitempty"` // manual/excel
	Operator     string `json:"operator,omitempty"`
}

// -------------------------- 代码生成领域 --------------------------

// CodegenPayload C 参数数组生成事件.
type CodegenPayload struct {
	RegulationID uint   `json:"regulation_id"`
	OutputPath   string `json:"output_path,omitempty"`
	Rows         int    `json:"rows,omitempty"`
	Error        string `json:"error,omitempty"`
}

// -------------------------- 数据同步领域 --------------------------

// SyncPayload 远端拉取/发布推送事件.
type SyncPayload struct {
	Remote  string `json:"remote,omitempty"`
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// -------------------------- 版本更新领域 --------------------------

// UpdateAvailablePayload 检测到新版本事件.
type UpdateAvailablePayload struct {
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version"`
	ReleaseNotes   string `json:"release_notes,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
}
