package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/internal/model"
)

// TestVersionNewer 点分段逐段数值比较，非数字段按 0 处理.
func TestVersionNewer(t *testing.T) {
	cases := []struct {
		latest  string
		current string
		want    bool
	}{
		{"1.1.5", "1.1.4", true},
		{"1.1.4", "1.1.4", false},
		{"1.0.9", "1.1.4", false},
		{"2.0", "1.9.9", true},
		{"v1.2.0", "1.1.8", true},
		{"1.1.8.1", "1.1.8", true},
		{"1.1", "1.1.0", false},
		{"abc", "1.0.0", false},
		{"1.x.9", "1.0.8", true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, versionNewer(tc.latest, tc.current),
			"versionNewer(%q, %q)", tc.latest, tc.current)
	}
}

func setUpdateConfig(t *testing.T, enabled bool, url string) {
	t.Helper()

	cfg := &configs.GetConfig().Update
	old := *cfg

	cfg.Enabled = enabled
	cfg.CheckURL = url
	cfg.Timeout = 2

	t.Cleanup(func() { *cfg = old })
}

// TestUpdateCheckDisabled 关闭检查时只返回当前版本.
func TestUpdateCheckDisabled(t *testing.T) {
	ctx := newTestContext(t)
	setUpdateConfig(t, false, "")

	resp, err := NewUpdateService(ctx).Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, configs.AppVersion, resp.CurrentVersion)
	assert.False(t, resp.Available)
	assert.Empty(t, resp.LatestVersion)
}

// TestUpdateCheckAvailable 远端版本更新时标记可用，广播通知只落一条.
func TestUpdateCheckAvailable(t *testing.T) {
	ctx := newTestContext(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"99.0.0","release_notes":"big one","download_url":"https://example.com/v99"}`))
	}))
	t.Cleanup(srv.Close)

	setUpdateConfig(t, true, srv.URL)

	svc := NewUpdateService(ctx)

	resp, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.False(t, resp.Degraded)
	assert.Equal(t, "99.0.0", resp.LatestVersion)
	assert.Equal(t, "big one", resp.ReleaseNotes)

	// 同版本重复检查不再生成新通知
	_, err = svc.Check(ctx)
	require.NoError(t, err)

	var count int64
	require.NoError(t, mustDB(t, ctx).Model(&model.Notification{}).
		Where("type = ?", model.NotifyTypeUpdate).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 检查结果进入缓存
	cached, err := svc.Cached(ctx)
	require.NoError(t, err)
	assert.Equal(t, "99.0.0", cached.LatestVersion)
}

// TestUpdateCheckDegrades 远端不可达时降级为"无更新"，不向调用方冒错.
func TestUpdateCheckDegrades(t *testing.T) {
	ctx := newTestContext(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立即关掉，拿一个必然拒绝连接的地址

	setUpdateConfig(t, true, srv.URL)

	resp, err := NewUpdateService(ctx).Check(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.False(t, resp.Available)
}

// TestUpdateCachedEmpty 没有缓存时返回 404.
func TestUpdateCachedEmpty(t *testing.T) {
	ctx := newTestContext(t)

	_, err := NewUpdateService(ctx).Cached(ctx)
	require.Error(t, err)
}
