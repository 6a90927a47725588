package model

import (
	"time"
)

// Parameter 法规参数行. 一条法规的参数表整体保存时按 RowOrder 全量替换.
type Parameter struct {
	ID           uint `gorm:"primaryKey"                json:"id"`
	RegulationID uint `gorm:"index:idx_param_reg_order" json:"regulation_id"`
	// RowOrder 参数在表格中的行序，从 0 开始，决定代码生成顺序
	RowOrder int `gorm:"index:idx_param_reg_order" json:"row_order"`

	// Category 参数分类，Excel 导入时纵向合并单元格展开而来
	Category string `gorm:"size:128;index" json:"category"`
	Name     string `gorm:"size:512"       json:"name"`
	// Protocol 协议寄存器地址，"-" 或空表示不进协议表
	Protocol string `gorm:"size:64" json:"protocol"`

	MinValue     string `gorm:"size:64" json:"min_value"`
	MaxValue     string `gorm:"size:64" json:"max_value"`
	DefaultValue string `gorm:"size:64" json:"default_value"`
	// Coefficient 缩放系数，代码生成时默认值按它取整换算
	Coefficient string `gorm:"size:64" json:"coefficient"`
	Unit        string `gorm:"size:64" json:"unit"`
	Description string `gorm:"type:text" json:"description"`

	// ImagePath 单元格嵌入图片提取后的落盘路径；"[图片未提取]" 表示无法解析
	ImagePath string `gorm:"size:1024" json:"image_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
