package service

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/types"
)

func setSyncConfig(t *testing.T, repoPath string) {
	t.Helper()

	cfg := &configs.GetConfig().Sync
	old := *cfg

	cfg.RepoPath = repoPath
	cfg.Remote = "origin"
	cfg.GitTimeout = 10
	cfg.HTTPTimeout = 10

	t.Cleanup(func() { *cfg = old })
}

// initGitRepo 建一个带单次提交的本地仓库；git 不可用时跳过用例.
func initGitRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("regulations"), 0o644))
	run("add", ".")
	run("commit", "-m", "initial")

	return dir
}

// TestSyncStatus 干净仓库返回分支与短提交号.
func TestSyncStatus(t *testing.T) {
	ctx := newTestContext(t)
	repo := initGitRepo(t)
	setSyncConfig(t, repo)

	status, err := NewSyncService(ctx).Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, repo, status.RepoPath)
	assert.NotEmpty(t, status.GitVersion)
	assert.NotEmpty(t, status.Branch)
	assert.NotEmpty(t, status.Commit)
	assert.True(t, status.Clean)
	// 没配远端时 fetch 失败只降级，不报错
	assert.False(t, status.Fetched)

	// 产生未提交变更后不再干净
	require.NoError(t, os.WriteFile(filepath.Join(repo, "dirty.txt"), []byte("x"), 0o644))

	status, err = NewSyncService(ctx).Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Clean)
}

// TestSyncStatusNotARepo 非仓库目录以外部工具错误浮出.
func TestSyncStatusNotARepo(t *testing.T) {
	ctx := newTestContext(t)

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	setSyncConfig(t, t.TempDir())

	_, err := NewSyncService(ctx).Status(ctx)
	require.Error(t, err)
	assert.Equal(t, 502, errors.AsStatusError(err).Code)
}

// TestSyncPullNoRemote 没配远端时拉取失败且不吞错.
func TestSyncPullNoRemote(t *testing.T) {
	ctx := newTestContext(t)
	repo := initGitRepo(t)
	setSyncConfig(t, repo)

	_, err := NewSyncService(ctx).Pull(ctx)
	require.Error(t, err)
	assert.Equal(t, 502, errors.AsStatusError(err).Code)
}

// TestPushReleaseRequiresConfig 缺 GitHub 配置时直接拒绝.
func TestPushReleaseRequiresConfig(t *testing.T) {
	ctx := newTestContext(t)
	setSyncConfig(t, t.TempDir())

	_, err := NewSyncService(ctx).PushRelease(ctx, types.PushReleaseRequest{TagName: "v1.0.0"})
	require.Error(t, err)
	assert.Equal(t, 400, errors.AsStatusError(err).Code)
}

// TestWriteVersionDescriptor 发布后重写的 version.json 去掉 v 前缀并带下载地址.
func TestWriteVersionDescriptor(t *testing.T) {
	ctx := newTestContext(t)
	repo := t.TempDir()
	setSyncConfig(t, repo)

	svc := NewSyncService(ctx)

	path, err := svc.writeVersionDescriptor(types.PushReleaseRequest{
		TagName: "v1.2.0",
		Body:    "修复参数导入",
	}, "https://example.com/releases/v1.2.0")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "version.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var desc types.VersionDescriptor
	require.NoError(t, sonic.Unmarshal(data, &desc))
	assert.Equal(t, "1.2.0", desc.Version)
	assert.Equal(t, "修复参数导入", desc.ReleaseNotes)
	assert.Equal(t, "https://example.com/releases/v1.2.0", desc.DownloadURL)
}
