package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobUpdateCheck       = "update.check"
	JobNotificationPurge = "notification.purge"
)

// Cron 表达式常量. 更新检查的表达式来自配置，这里只放固定的.
const (
	CronNotificationPurge = "30 3 * * *"
)

// 已读通知保留天数，超期由 purge 任务清理.
const notificationRetentionDays = 90
