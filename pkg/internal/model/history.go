package model

import (
	"time"
)

// 变更动作常量.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
)

// ChangeHistory 变更历史. Snapshot 保存操作前对象的 JSON 快照，删除后仍可追溯.
type ChangeHistory struct {
	ID           uint   `gorm:"primaryKey"     json:"id"`
	RegulationID uint   `gorm:"index"          json:"regulation_id"`
	Action       string `gorm:"size:32;index"  json:"action"`
	// Field 更新操作时变更的字段名列表，逗号分隔
	Field    string `gorm:"size:512"  json:"field"`
	Snapshot string `gorm:"type:text" json:"snapshot"`
	// Operator 执行操作的用户名
	Operator string `gorm:"size:64;index" json:"operator"`
	Remark   string `gorm:"size:512"      json:"remark"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
