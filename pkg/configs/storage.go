package configs

import (
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	DefaultDataDir = "data" // 托管存储根目录

	// 托管存储子目录，按法规 id 分桶存放上传副本.
	DocumentsSubdir = "documents"
	CodesSubdir     = "codes"
	ExportsSubdir   = "exports"
)

// StorageConfig 托管文件存储配置：上传的文档/代码文件复制进该目录树.
type StorageConfig struct {
	// DataDir 数据根目录，documents/<regulation_id>/ 和 codes/<regulation_id>/ 在其下
	DataDir string `mapstructure:"data_dir" rule:"required"`
}

// DocumentsDir 返回文档存储目录.
func (c *StorageConfig) DocumentsDir() string {
	return filepath.Join(c.DataDir, DocumentsSubdir)
}

// CodesDir 返回代码文件存储目录.
func (c *StorageConfig) CodesDir() string {
	return filepath.Join(c.DataDir, CodesSubdir)
}

// ExportsDir 返回导出文件目录.
func (c *StorageConfig) ExportsDir() string {
	return filepath.Join(c.DataDir, ExportsSubdir)
}

func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.data_dir", DefaultDataDir)
}
