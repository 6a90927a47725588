// Package files 管理托管文件目录树：上传的法规文档与代码文件按法规 id 分桶复制，
// 目录结构为 <data_dir>/documents/<regulation_id>/ 与 <data_dir>/codes/<regulation_id>/.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/yeisme/regvault/pkg/configs"
)

const dirPerm = 0o755

// Client 托管文件存储客户端.
type Client struct {
	docsDir    string
	codesDir   string
	exportsDir string
}

// New 创建托管文件存储客户端并确保目录树存在.
func New(cfg *configs.StorageConfig) (*Client, error) {
	c := &Client{
		docsDir:    cfg.DocumentsDir(),
		codesDir:   cfg.CodesDir(),
		exportsDir: cfg.ExportsDir(),
	}

	for _, dir := range []string{c.docsDir, c.codesDir, c.exportsDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}

	return c, nil
}

// StoredFile 描述一次复制进托管存储的结果.
type StoredFile struct {
	Path string // 托管存储中的绝对/相对路径
	Name string // 文件名
	Size int64  // 字节数
	Hash string // 内容的 xxhash64 十六进制摘要
}

// CopyDocument 把源文件复制到 documents/<regulationID>/ 下，同名覆盖.
func (c *Client) CopyDocument(regulationID uint, srcPath string) (*StoredFile, error) {
	return c.copyInto(c.docsDir, regulationID, srcPath)
}

// CopyCodeFile 把源文件复制到 codes/<regulationID>/ 下，同名覆盖.
func (c *Client) CopyCodeFile(regulationID uint, srcPath string) (*StoredFile, error) {
	return c.copyInto(c.codesDir, regulationID, srcPath)
}

func (c *Client) copyInto(baseDir string, regulationID uint, srcPath string) (*StoredFile, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer src.Close()

	destDir := filepath.Join(baseDir, strconv.FormatUint(uint64(regulationID), 10))
	if err := os.MkdirAll(destDir, dirPerm); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", destDir, err)
	}

	name := filepath.Base(srcPath)
	destPath := filepath.Join(destDir, name)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create dest file: %w", err)
	}
	defer dst.Close()

	// 复制的同时计算内容摘要
	hasher := xxhash.New()

	size, err := io.Copy(io.MultiWriter(dst, hasher), src)
	if err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}

	return &StoredFile{
		Path: destPath,
		Name: name,
		Size: size,
		Hash: fmt.Sprintf("%016x", hasher.Sum64()),
	}, nil
}

// HashFile 计算文件内容的 xxhash64 摘要.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// SaveParameterImage 把参数表中提取出的嵌入图片写到 documents/<regulationID>/images/ 下，
// 返回落盘路径.
func (c *Client) SaveParameterImage(regulationID uint, name string, data []byte) (string, error) {
	dir := filepath.Join(c.docsDir, strconv.FormatUint(uint64(regulationID), 10), "images")
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create image dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", path, err)
	}

	return path, nil
}

// RemoveRegulationDirs 删除某条法规的文档与代码目录，尽力而为；
// 目录被占用或不存在都不算错误，返回首个真实失败.
func (c *Client) RemoveRegulationDirs(regulationID uint) error {
	id := strconv.FormatUint(uint64(regulationID), 10)

	var firstErr error

	for _, dir := range []string{
		filepath.Join(c.docsDir, id),
		filepath.Join(c.codesDir, id),
	} {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", dir, err)
		}
	}

	return firstErr
}

// RemoveStored 删除托管存储中的单个文件，不存在不算错误.
func (c *Client) RemoveStored(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// ExportPath 返回导出文件在托管存储中的完整路径.
func (c *Client) ExportPath(name string) string {
	return filepath.Join(c.exportsDir, name)
}

// DocumentsDir 返回文档根目录.
func (c *Client) DocumentsDir() string { return c.docsDir }

// CodesDir 返回代码文件根目录.
func (c *Client) CodesDir() string { return c.codesDir }
