package types

// UpdateCheckResponse 更新检查结果. 拉取失败时 Available 恒为 false.
type UpdateCheckResponse struct {
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version,omitempty"`
	Available      bool   `json:"available"`
	ReleaseNotes   string `json:"release_notes,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
	// CheckedAt 本次检查时间（RFC3339）
	CheckedAt string `json:"checked_at"`
	// Degraded 网络失败降级为无更新时为 true
	Degraded bool `json:"degraded,omitempty"`
}

// VersionDescriptor 远端版本描述符（version.json）.
type VersionDescriptor struct {
	Version      string `json:"version"`
	ReleaseNotes string `json:"release_notes,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
}

// SyncPullResponse 远端法规库拉取结果.
type SyncPullResponse struct {
	Remote string `json:"remote"`
	// Output git 输出摘要
	Output string `json:"output,omitempty"`
	// Updated 拉取后工作区是否发生变化
	Updated bool `json:"updated"`
}

// PushReleaseRequest 发布包推送请求.
type PushReleaseRequest struct {
	// TagName 发布标签，如 v1.2.0
	TagName string `binding:"required" json:"tag_name"`
	Name    string `json:"name,omitempty"`
	Body    string `json:"body,omitempty"`
	// AssetPaths 要上传的资产文件路径列表
	AssetPaths []string `json:"asset_paths,omitempty"`
	Draft      bool     `json:"draft,omitempty"`
	Prerelease bool     `json:"prerelease,omitempty"`
}

// PushReleaseResponse 发布包推送结果.
type PushReleaseResponse struct {
	ReleaseID int64  `json:"release_id"`
	TagName   string `json:"tag_name"`
	HTMLURL   string `json:"html_url,omitempty"`
	// Assets 上传成功的资产文件名
	Assets []string `json:"assets,omitempty"`
	// S3Backed 是否同时备份到对象存储
	S3Backed bool `json:"s3_backed,omitempty"`
	// DescriptorPath 重新生成的 version.json 路径
	DescriptorPath string `json:"descriptor_path,omitempty"`
}

// SyncStatusResponse 本地仓库状态.
type SyncStatusResponse struct {
	RepoPath string `json:"repo_path"`
	// GitVersion 本机 git 版本号
	GitVersion string `json:"git_version,omitempty"`
	Branch     string `json:"branch,omitempty"`
	// Commit 当前 HEAD 短哈希
	Commit string `json:"commit,omitempty"`
	Clean  bool   `json:"clean"`
	// Fetched 是否成功联系到远端；false 时 Behind 不可信
	Fetched bool `json:"fetched"`
	// Behind 本地落后远端分支的提交数
	Behind int `json:"behind,omitempty"`
}
