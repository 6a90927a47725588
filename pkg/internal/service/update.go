package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

const (
	kvKeyUpdateLast       = "update:last"
	kvKeyUpdateNotified   = "update:notified:" // + 版本号，去重通知
	updateCacheTTL        = 30 * time.Minute
	updateNotifyTTL       = 30 * 24 * time.Hour
	updateMaxDescriptorKB = 64
)

// updateBreaker 包级熔断器，连续失败后短路描述符拉取，跨请求共享.
var updateBreaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
	Name:    "update-descriptor-fetch",
	Timeout: 2 * time.Minute,
})

// UpdateService 负责远端版本描述符检查与新版本通知.
type UpdateService struct {
	*baseService

	cfg *configs.UpdateConfig
}

// NewUpdateService 从 context 获取依赖实例.
func NewUpdateService(c context.Context) *UpdateService {
	return &UpdateService{
		baseService: newBaseService(c),
		cfg:         &configs.GetConfig().Update,
	}
}

// Check 拉取远端 version.json 并与当前版本比较.
// 网络失败、超时或熔断一律降级为"无更新"，不向调用方冒错.
func (u *UpdateService) Check(ctx context.Context) (types.UpdateCheckResponse, error) {
	resp := types.UpdateCheckResponse{
		CurrentVersion: configs.AppVersion,
		CheckedAt:      fmtTime(time.Now()),
	}

	if !u.cfg.Enabled {
		return resp, nil
	}

	desc, err := u.fetchDescriptor(ctx)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("update check degraded to no-update")

		resp.Degraded = true

		return resp, nil
	}

	resp.LatestVersion = desc.Version
	resp.ReleaseNotes = desc.ReleaseNotes
	resp.DownloadURL = desc.DownloadURL
	resp.Available = versionNewer(desc.Version, configs.AppVersion)

	u.cacheResult(ctx, resp)

	if resp.Available {
		u.notifyOnce(ctx, desc)
	}

	return resp, nil
}

// Cached 返回最近一次成功检查的结果，没有缓存时返回 NotFound.
func (u *UpdateService) Cached(ctx context.Context) (types.UpdateCheckResponse, error) {
	data, err := u.kvClient.Get(ctx, kvKeyUpdateLast)
	if err != nil {
		return types.UpdateCheckResponse{}, errors.ErrNotFound.WithReason("no cached update check")
	}

	var resp types.UpdateCheckResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return types.UpdateCheckResponse{}, errors.ErrInternal.WithReason(err.Error())
	}

	return resp, nil
}

// fetchDescriptor 经熔断器拉取版本描述符，固定超时.
func (u *UpdateService) fetchDescriptor(ctx context.Context) (*types.VersionDescriptor, error) {
	result, err := updateBreaker.Execute(func() (any, error) {
		reqCtx, cancel := context.WithTimeout(ctx, u.cfg.TimeoutDuration())
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.cfg.CheckURL, nil)
		if err != nil {
			return nil, err
		}

		httpResp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("descriptor endpoint returned %d", httpResp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, updateMaxDescriptorKB*1024))
		if err != nil {
			return nil, err
		}

		var desc types.VersionDescriptor
		if err := sonic.Unmarshal(data, &desc); err != nil {
			return nil, fmt.Errorf("parse descriptor: %w", err)
		}

		if desc.Version == "" {
			return nil, fmt.Errorf("descriptor missing version")
		}

		return &desc, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*types.VersionDescriptor), nil
}

// notifyOnce 每个新版本只产生一条广播通知.
func (u *UpdateService) notifyOnce(ctx context.Context, desc *types.VersionDescriptor) {
	dedupeKey := kvKeyUpdateNotified + desc.Version

	if exists, err := u.kvClient.Exists(ctx, dedupeKey); err == nil && exists {
		return
	}

	notification := model.Notification{
		UserID:  0, // 广播
		Type:    model.NotifyTypeUpdate,
		Title:   "发现新版本 " + desc.Version,
		Content: desc.ReleaseNotes,
	}
	if err := u.dbClient.GetDB().WithContext(ctx).Create(&notification).Error; err != nil {
		nlog.Logger().Warn().Err(err).Msg("create update notification failed")

		return
	}

	if err := u.kvClient.Set(ctx, dedupeKey, []byte("1"), updateNotifyTTL); err != nil {
		nlog.Logger().Warn().Err(err).Msg("mark update notified failed")
	}

	payload := queue.UpdateAvailablePayload{
		CurrentVersion: configs.AppVersion,
		LatestVersion:  desc.Version,
		ReleaseNotes:   desc.ReleaseNotes,
		DownloadURL:    desc.DownloadURL,
	}
	if err := queue.PublishUpdateAvailable(ctx, u.mqClient, payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Msg("publish update event failed")
	}
}

func (u *UpdateService) cacheResult(ctx context.Context, resp types.UpdateCheckResponse) {
	data, err := sonic.Marshal(resp)
	if err != nil {
		return
	}

	if err := u.kvClient.Set(ctx, kvKeyUpdateLast, data, updateCacheTTL); err != nil {
		nlog.Logger().Warn().Err(err).Msg("cache update check failed")
	}
}

// versionNewer 判定 latest 是否严格新于 current. 点分段逐段数值比较，
// 非数字段按 0 处理，段数不齐短侧补 0；相等或更旧都算 false.
func versionNewer(latest, current string) bool {
	lp := strings.Split(strings.TrimPrefix(strings.TrimSpace(latest), "v"), ".")
	cp := strings.Split(strings.TrimPrefix(strings.TrimSpace(current), "v"), ".")

	n := len(lp)
	if len(cp) > n {
		n = len(cp)
	}

	for i := 0; i < n; i++ {
		lv := versionPart(lp, i)
		cv := versionPart(cp, i)

		if lv != cv {
			return lv > cv
		}
	}

	return false
}

func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}

	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}

	return v
}
