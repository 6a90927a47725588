package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSyncRepoPath    = "."      // Git 仓库路径（法规数据随仓库分发）
	DefaultSyncRemote      = "origin" // 远端名称
	DefaultSyncGitTimeout  = 30       // git 子进程超时（秒）
	DefaultSyncHTTPTimeout = 60       // 发布上传超时（秒）
	DefaultGithubAPIBase   = "https://api.github.com"
	DefaultGithubUploads   = "https://uploads.github.com"
)

// SyncConfig 数据同步与发布推送配置：git 子进程拉取 + GitHub Release 上传.
type SyncConfig struct {
	RepoPath    string `mapstructure:"repo_path"`
	Remote      string `mapstructure:"remote"`
	GitTimeout  int    `mapstructure:"git_timeout"  rule:"min=1,max=600"`
	HTTPTimeout int    `mapstructure:"http_timeout" rule:"min=1,max=600"`

	// GitHub Release 推送配置
	GithubOwner   string `mapstructure:"github_owner"`
	GithubRepo    string `mapstructure:"github_repo"`
	GithubToken   string `mapstructure:"github_token"`
	GithubAPIBase string `mapstructure:"github_api_base"`
	GithubUploads string `mapstructure:"github_uploads"`

	// S3Backup 发布资产同时上传一份到对象存储（可选异地备份）
	S3Backup bool `mapstructure:"s3_backup"`
}

// GitTimeoutDuration 返回 git 子进程超时.
func (c *SyncConfig) GitTimeoutDuration() time.Duration {
	return time.Duration(c.GitTimeout) * time.Second
}

// HTTPTimeoutDuration 返回发布上传超时.
func (c *SyncConfig) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

func (c *SyncConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("sync.repo_path", DefaultSyncRepoPath)
	v.SetDefault("sync.remote", DefaultSyncRemote)
	v.SetDefault("sync.git_timeout", DefaultSyncGitTimeout)
	v.SetDefault("sync.http_timeout", DefaultSyncHTTPTimeout)
	v.SetDefault("sync.github_owner", "")
	v.SetDefault("sync.github_repo", "")
	v.SetDefault("sync.github_token", "")
	v.SetDefault("sync.github_api_base", DefaultGithubAPIBase)
	v.SetDefault("sync.github_uploads", DefaultGithubUploads)
	v.SetDefault("sync.s3_backup", false)
}
