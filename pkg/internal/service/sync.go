package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/yeisme/regvault/pkg/configs"
	ctxPkg "github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/storage/s3"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

// SyncService 负责 git 拉取法规库与 GitHub Release 发布推送.
// git 与 GitHub 都当外部黑盒，失败以 ExternalTool 错误浮出，永不致命.
type SyncService struct {
	*baseService

	s3Client *s3.Client // 可选，未启用时为 nil
	cfg      *configs.SyncConfig
}

// NewSyncService 从 context 获取依赖实例.
func NewSyncService(c context.Context) *SyncService {
	return &SyncService{
		baseService: newBaseService(c),
		s3Client:    ctxPkg.GetS3Client(c),
		cfg:         &configs.GetConfig().Sync,
	}
}

// git 在仓库目录执行 git 子命令，带固定超时.
func (s *SyncService) git(ctx context.Context, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.GitTimeoutDuration())
	defer cancel()

	fullArgs := append([]string{"-C", s.cfg.RepoPath}, args...)
	cmd := exec.CommandContext(runCtx, "git", fullArgs...)

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(out.String()))
	}

	return strings.TrimSpace(out.String()), nil
}

// Status 返回本地仓库状态，并尽力获取落后远端的提交数.
// fetch 失败（离线、未配远端）不算错误，只把 Fetched 置 false.
func (s *SyncService) Status(ctx context.Context) (types.SyncStatusResponse, error) {
	gitVersion, err := s.git(ctx, "--version")
	if err != nil {
		return types.SyncStatusResponse{}, errors.ErrExternalTool.WithReason(err.Error())
	}

	if _, err := s.git(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return types.SyncStatusResponse{}, errors.ErrExternalTool.WithReason(err.Error())
	}

	branch, err := s.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return types.SyncStatusResponse{}, errors.ErrExternalTool.WithReason(err.Error())
	}

	commit, err := s.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return types.SyncStatusResponse{}, errors.ErrExternalTool.WithReason(err.Error())
	}

	porcelain, err := s.git(ctx, "status", "--porcelain")
	if err != nil {
		return types.SyncStatusResponse{}, errors.ErrExternalTool.WithReason(err.Error())
	}

	resp := types.SyncStatusResponse{
		RepoPath:   s.cfg.RepoPath,
		GitVersion: strings.TrimPrefix(gitVersion, "git version "),
		Branch:     branch,
		Commit:     commit,
		Clean:      porcelain == "",
	}

	if _, err := s.git(ctx, "fetch", s.cfg.Remote); err != nil {
		nlog.Logger().Debug().Err(err).Str("remote", s.cfg.Remote).Msg("fetch remote failed")

		return resp, nil
	}

	resp.Fetched = true

	if count, err := s.git(ctx, "rev-list", "--count", "HEAD.."+s.cfg.Remote+"/"+branch); err == nil {
		if n, convErr := strconv.Atoi(count); convErr == nil {
			resp.Behind = n
		}
	}

	return resp, nil
}

// Pull 从远端拉取法规库更新.
func (s *SyncService) Pull(ctx context.Context) (types.SyncPullResponse, error) {
	s.publishSync(ctx, queue.TopicSyncPullRequested, queue.SyncPayload{Remote: s.cfg.Remote})

	before, _ := s.git(ctx, "rev-parse", "HEAD")

	output, err := s.git(ctx, "pull", s.cfg.Remote)
	if err != nil {
		s.publishSync(ctx, queue.TopicSyncPullFailed, queue.SyncPayload{Remote: s.cfg.Remote, Error: err.Error()})

		return types.SyncPullResponse{}, errors.ErrExternalTool.WithReason(err.Error())
	}

	after, _ := s.git(ctx, "rev-parse", "HEAD")

	s.publishSync(ctx, queue.TopicSyncPulled, queue.SyncPayload{Remote: s.cfg.Remote, Ref: after, Message: output})

	return types.SyncPullResponse{
		Remote:  s.cfg.Remote,
		Output:  output,
		Updated: before != after,
	}, nil
}

// githubRelease GitHub Release 创建接口响应里用到的字段.
type githubRelease struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// PushRelease 在 GitHub 创建 Release 并上传资产，可选同时备份到对象存储.
func (s *SyncService) PushRelease(ctx context.Context, req types.PushReleaseRequest) (types.PushReleaseResponse, error) {
	if s.cfg.GithubOwner == "" || s.cfg.GithubRepo == "" || s.cfg.GithubToken == "" {
		return types.PushReleaseResponse{}, errors.ErrInvalidRequest.WithReason("github owner/repo/token not configured")
	}

	release, err := s.createRelease(ctx, req)
	if err != nil {
		return types.PushReleaseResponse{}, err
	}

	resp := types.PushReleaseResponse{
		ReleaseID: release.ID,
		TagName:   release.TagName,
		HTMLURL:   release.HTMLURL,
	}

	for _, assetPath := range req.AssetPaths {
		if err := s.uploadAsset(ctx, release.ID, assetPath); err != nil {
			// 单个资产失败不回滚 Release，剩余资产继续
			nlog.Logger().Warn().Err(err).Str("asset", assetPath).Msg("upload release asset failed")

			continue
		}

		resp.Assets = append(resp.Assets, filepath.Base(assetPath))

		if s.cfg.S3Backup && s.s3Client != nil {
			objectName := "releases/" + req.TagName + "/" + filepath.Base(assetPath)
			if err := s.s3Client.UploadFile(ctx, objectName, assetPath, "application/octet-stream"); err != nil {
				nlog.Logger().Warn().Err(err).Str("object", objectName).Msg("backup release asset to s3 failed")
			} else {
				resp.S3Backed = true
			}
		}
	}

	// 正式版本发布后重写仓库里的 version.json，更新检查端点以它为准
	if !req.Draft && !req.Prerelease {
		if path, err := s.writeVersionDescriptor(req, release.HTMLURL); err != nil {
			nlog.Logger().Warn().Err(err).Msg("regenerate version descriptor failed")
		} else {
			resp.DescriptorPath = path
		}
	}

	s.publishSync(ctx, queue.TopicSyncReleasePushed, queue.SyncPayload{
		Remote:  s.cfg.GithubOwner + "/" + s.cfg.GithubRepo,
		Ref:     req.TagName,
		Message: release.HTMLURL,
	})

	return resp, nil
}

// writeVersionDescriptor 按发布内容重写仓库根下的 version.json.
func (s *SyncService) writeVersionDescriptor(req types.PushReleaseRequest, htmlURL string) (string, error) {
	desc := types.VersionDescriptor{
		Version:      strings.TrimPrefix(req.TagName, "v"),
		ReleaseNotes: req.Body,
		DownloadURL:  htmlURL,
	}

	data, err := sonic.Marshal(desc)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.cfg.RepoPath, "version.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

func (s *SyncService) createRelease(ctx context.Context, req types.PushReleaseRequest) (*githubRelease, error) {
	body, err := sonic.Marshal(map[string]any{
		"tag_name":   req.TagName,
		"name":       req.Name,
		"body":       req.Body,
		"draft":      req.Draft,
		"prerelease": req.Prerelease,
	})
	if err != nil {
		return nil, errors.ErrInternal.WithReason(err.Error())
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases", s.cfg.GithubAPIBase, s.cfg.GithubOwner, s.cfg.GithubRepo)

	data, err := s.githubDo(ctx, http.MethodPost, url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var release githubRelease
	if err := sonic.Unmarshal(data, &release); err != nil {
		return nil, errors.ErrExternalTool.WithReason(err.Error())
	}

	return &release, nil
}

func (s *SyncService) uploadAsset(ctx context.Context, releaseID int64, assetPath string) error {
	f, err := os.Open(assetPath)
	if err != nil {
		return errors.ErrSourceFile.WithReason(err.Error())
	}
	defer f.Close()

	url := fmt.Sprintf("%s/repos/%s/%s/releases/%d/assets?name=%s",
		s.cfg.GithubUploads, s.cfg.GithubOwner, s.cfg.GithubRepo, releaseID, filepath.Base(assetPath))

	_, err = s.githubDo(ctx, http.MethodPost, url, "application/octet-stream", f)

	return err
}

// githubDo 带令牌与固定超时调用 GitHub REST.
func (s *SyncService) githubDo(ctx context.Context, method, url, contentType string, body io.Reader) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.HTTPTimeoutDuration())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, errors.ErrInternal.WithReason(err.Error())
	}

	req.Header.Set("Authorization", "Bearer "+s.cfg.GithubToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.ErrExternalTool.WithReason(err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ErrExternalTool.WithReason(err.Error())
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.ErrExternalTool.WithReasonf("github returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return data, nil
}

func (s *SyncService) publishSync(ctx context.Context, topic string, payload queue.SyncPayload) {
	if err := queue.PublishEvent(ctx, s.mqClient, topic, payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish sync event failed")
	}
}
