package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/internal/storage/files"
)

func newClient(t *testing.T) (*files.Client, string) {
	t.Helper()

	dataDir := t.TempDir()

	client, err := files.New(&configs.StorageConfig{DataDir: dataDir})
	require.NoError(t, err)

	return client, dataDir
}

// TestCopyDocument 文档复制进 documents/<id>/ 并带内容摘要.
func TestCopyDocument(t *testing.T) {
	client, dataDir := newClient(t)

	src := filepath.Join(t.TempDir(), "grid_code.pdf")
	require.NoError(t, os.WriteFile(src, []byte("regulation body"), 0o644))

	stored, err := client.CopyDocument(12, src)
	require.NoError(t, err)
	assert.Equal(t, "grid_code.pdf", stored.Name)
	assert.EqualValues(t, len("regulation body"), stored.Size)
	assert.Len(t, stored.Hash, 16)
	assert.Equal(t, filepath.Join(dataDir, "documents", "12", "grid_code.pdf"), stored.Path)

	// 同内容哈希一致
	hash, err := files.HashFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, stored.Hash, hash)
}

// TestCopyCodeFileOverwrites 同名文件复制覆盖旧副本.
func TestCopyCodeFileOverwrites(t *testing.T) {
	client, _ := newClient(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "param_table.c")

	require.NoError(t, os.WriteFile(src, []byte("v1"), 0o644))
	first, err := client.CopyCodeFile(3, src)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("v2 longer"), 0o644))
	second, err := client.CopyCodeFile(3, src)
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.NotEqual(t, first.Hash, second.Hash)

	content, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Equal(t, "v2 longer", string(content))
}

// TestSaveParameterImage 图片落在 documents/<id>/images/ 下.
func TestSaveParameterImage(t *testing.T) {
	client, dataDir := newClient(t)

	path, err := client.SaveParameterImage(5, "row001.png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "documents", "5", "images", "row001.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 4)
}

// TestRemoveRegulationDirs 删除法规目录树，再次删除不算错误.
func TestRemoveRegulationDirs(t *testing.T) {
	client, _ := newClient(t)

	src := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	stored, err := client.CopyDocument(9, src)
	require.NoError(t, err)

	require.NoError(t, client.RemoveRegulationDirs(9))

	_, err = os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, client.RemoveRegulationDirs(9))
}

// TestRemoveStoredMissing 删除不存在的文件不算错误.
func TestRemoveStoredMissing(t *testing.T) {
	client, _ := newClient(t)

	assert.NoError(t, client.RemoveStored(filepath.Join(t.TempDir(), "ghost.pdf")))
}
