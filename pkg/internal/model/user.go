package model

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色常量，存库用字符串便于直接阅读.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// User 用户模型.
type User struct {
	ID       uint   `gorm:"primaryKey"             json:"id"`
	Username string `gorm:"size:64;uniqueIndex"    json:"username"`
	// PasswordHash bcrypt 哈希，永不出现在响应里
	PasswordHash string `gorm:"size:128" json:"-"`
	Role         string `gorm:"size:16"  json:"role"`
	DisplayName  string `gorm:"size:128" json:"display_name"`
	Email        string `gorm:"size:255" json:"email"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
