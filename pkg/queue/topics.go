// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：rv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：regulation(法规)、parameter(参数)、codegen(代码生成)、sync(数据同步)、update(版本更新)
// 动作：created/updated/deleted/imported/generated 等
// 状态：请求(requested)、完成(ed)、失败(failed)

const (
	// 法规领域.
	TopicRegulationCreated  = "rv.regulation.created"  // 新法规入库
	TopicRegulationUpdated  = "rv.regulation.updated"  // 法规字段或标签变更
	TopicRegulationDeleted  = "rv.regulation.deleted"  // 法规删除（历史快照已落库）
	TopicRegulationImported = "rv.regulation.imported" // 批量导入完成（JSON/Excel）

	// 文档与代码文件领域.
	TopicDocumentAdded   = "rv.document.added"    // 文档副本写入托管存储
	TopicDocumentRemoved = "rv.document.removed"  // 文档记录删除
	TopicCodeFileAdded   = "rv.codefile.added"    // 代码文件副本写入托管存储
	TopicCodeFileRemoved = "rv.codefile.removed"  // 代码文件记录删除

	// 参数领域.
	TopicParametersSaved    = "rv.parameter.saved"    // 参数表整体替换保存
	TopicParametersImported = "rv.parameter.imported" // Excel 参数导入完成

	// 代码生成领域.
	TopicCodegenGenerated = "rv.codegen.generated" // C 参数数组生成完成
	TopicCodegenFailed    = "rv.codegen.failed"    // 生成失败

	// 数据同步领域.
	TopicSyncPullRequested = "rv.sync.pull.requested" // 请求从远端拉取法规库
	TopicSyncPulled        = "rv.sync.pulled"         // 拉取完成
	TopicSyncPullFailed    = "rv.sync.pull.failed"    // 拉取失败
	TopicSyncReleasePushed = "rv.sync.release.pushed" // 发布包推送完成

	// 版本更新领域.
	TopicUpdateAvailable = "rv.update.available" // 检测到新版本
)

// 主题分组，用于批量订阅.
var (
	// 法规数据变更主题集合，通知服务据此生成站内通知.
	RegulationTopics = []string{
		TopicRegulationCreated, TopicRegulationUpdated,
		TopicRegulationDeleted, TopicRegulationImported,
	}

	// 托管文件变更主题集合.
	FileTopics = []string{
		TopicDocumentAdded, TopicDocumentRemoved,
		TopicCodeFileAdded, TopicCodeFileRemoved,
	}

	// 参数变更主题集合.
	ParameterTopics = []string{
		TopicParametersSaved, TopicParametersImported,
	}

	// 数据同步主题集合.
	SyncTopics = []string{
		TopicSyncPullRequested, TopicSyncPulled,
		TopicSyncPullFailed, TopicSyncReleasePushed,
	}
)
