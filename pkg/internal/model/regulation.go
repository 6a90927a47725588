package model

import (
	"time"

	"gorm.io/gorm"
)

// 法规状态常量.
const (
	StatusDraft      = "draft"      // 草稿
	StatusActive     = "active"     // 现行有效
	StatusDeprecated = "deprecated" // 已废止
	StatusArchived   = "archived"   // 已归档
)

// Regulation 并网法规模型，Code 全局唯一.
type Regulation struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Code 法规编号，如 "VDE-AR-N 4105"
	Code        string `gorm:"size:128;uniqueIndex" json:"code"`
	Name        string `gorm:"size:512;index"       json:"name"`
	Country     string `gorm:"size:64;index"        json:"country"`
	Category    string `gorm:"size:128;index"       json:"category"`
	Status      string `gorm:"size:32;index"        json:"status"`
	Version     string `gorm:"size:64"              json:"version"`
	Description string `gorm:"type:text"            json:"description"`
	// EffectiveDate 生效日期，自由文本（不同国家格式差异大）
	EffectiveDate string `gorm:"size:64" json:"effective_date"`

	Documents []RegulationDocument `gorm:"constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	CodeFiles []CodeFile           `gorm:"constraint:OnDelete:CASCADE" json:"code_files,omitempty"`
	Tags      []Tag                `gorm:"many2many:regulation_tags"   json:"tags,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RegulationDocument 法规关联的文档文件，物理副本在托管存储 documents/<regulation_id>/ 下.
type RegulationDocument struct {
	ID           uint   `gorm:"primaryKey"     json:"id"`
	RegulationID uint   `gorm:"index"          json:"regulation_id"`
	FileName     string `gorm:"size:512"       json:"file_name"`
	FilePath     string `gorm:"size:1024"      json:"file_path"`
	FileType     string `gorm:"size:64;index"  json:"file_type"`
	Size         int64  `json:"size"`
	// Hash 复制入库时计算的内容摘要，用于发现副本损坏
	Hash        string `gorm:"size:32"   json:"hash"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CodeFile 法规关联的代码文件，物理副本在托管存储 codes/<regulation_id>/ 下.
type CodeFile struct {
	ID           uint   `gorm:"primaryKey"    json:"id"`
	RegulationID uint   `gorm:"index"         json:"regulation_id"`
	FileName     string `gorm:"size:512"      json:"file_name"`
	FilePath     string `gorm:"size:1024"     json:"file_path"`
	Language     string `gorm:"size:32;index" json:"language"`
	Version      string `gorm:"size:64"       json:"version"`
	Size         int64  `json:"size"`
	Hash         string `gorm:"size:32"   json:"hash"`
	Description  string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag 标签模型，名称唯一.
type Tag struct {
	ID   uint   `gorm:"primaryKey"          json:"id"`
	Name string `gorm:"size:64;uniqueIndex" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}

// RegulationTag 法规与标签的关联表.
type RegulationTag struct {
	RegulationID uint `gorm:"primaryKey" json:"regulation_id"`
	TagID        uint `gorm:"primaryKey" json:"tag_id"`
}
