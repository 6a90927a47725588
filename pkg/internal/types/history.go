package types

// HistoryInfo 变更历史响应体.
type HistoryInfo struct {
	ID           uint   `json:"id"`
	RegulationID uint   `json:"regulation_id"`
	Action       string `json:"action"`
	Field        string `json:"field,omitempty"`
	Snapshot     string `json:"snapshot,omitempty"`
	Operator     string `json:"operator,omitempty"`
	Remark       string `json:"remark,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// ListHistoryRequest 变更历史过滤条件.
type ListHistoryRequest struct {
	RegulationID uint   `form:"regulation_id" json:"regulation_id,omitempty"`
	Action       string `form:"action"        json:"action,omitempty" rule:"omitempty,oneof=create update delete import"`
	Page         int    `form:"page"          json:"page,omitempty"`
	Size         int    `form:"size"          json:"size,omitempty"`
}

// ListHistoryResponse 变更历史列表响应，按时间倒序.
type ListHistoryResponse struct {
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	Size    int           `json:"size"`
	History []HistoryInfo `json:"history"`
}
