package model

import (
	"time"
)

// 通知类型常量.
const (
	NotifyTypeUpdate     = "update"     // 新版本可用
	NotifyTypeRegulation = "regulation" // 法规数据变更
	NotifyTypeSystem     = "system"     // 系统消息
)

// Notification 站内通知. UserID 为 0 表示广播给所有用户.
type Notification struct {
	ID      uint   `gorm:"primaryKey"    json:"id"`
	UserID  uint   `gorm:"index"         json:"user_id"`
	Type    string `gorm:"size:32;index" json:"type"`
	Title   string `gorm:"size:512"      json:"title"`
	Content string `gorm:"type:text"     json:"content"`
	Read    bool   `gorm:"index"         json:"read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
