// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/regvault/pkg/configs"
	ctxPkg "github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/storage"
	"github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/metrics"
	"github.com/yeisme/regvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按配置的 cron（默认每 4 小时）检查远端新版本
//   - 每天 03:30 清理超期的已读通知
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	cfg := configs.GetConfig()

	if cfg.Update.Enabled {
		_ = sched.AddCron(JobUpdateCheck, cfg.Update.CheckCron, func(ctx context.Context) {
			runUpdateCheck(ctx)
		}, baseCtx)
	}

	_ = sched.AddCron(JobNotificationPurge, CronNotificationPurge, func(ctx context.Context) {
		runNotificationPurge(ctx, mgr)
	}, baseCtx)

	return nil
}

// runUpdateCheck 定时检查远端版本，新版本会落广播通知并发事件.
func runUpdateCheck(ctx context.Context) {
	l := log.Logger().With().Str("job", JobUpdateCheck).Logger()

	resp, err := service.NewUpdateService(ctx).Check(ctx)
	if err != nil {
		metrics.UpdateChecks.WithLabelValues("error").Inc()
		l.Error().Err(err).Msg("update check failed")

		return
	}

	switch {
	case resp.Degraded:
		metrics.UpdateChecks.WithLabelValues("degraded").Inc()
	case resp.Available:
		metrics.UpdateChecks.WithLabelValues("available").Inc()
		l.Info().Str("latest", resp.LatestVersion).Msg("new version available")
	default:
		metrics.UpdateChecks.WithLabelValues("up_to_date").Inc()
	}
}

// runNotificationPurge 清理超过保留期的已读通知.
func runNotificationPurge(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobNotificationPurge).Logger()

	dbx := mgr.GetDBClient().GetDB().WithContext(ctx)
	before := time.Now().AddDate(0, 0, -notificationRetentionDays)

	result := dbx.Where("read = ? AND created_at < ?", true, before).Delete(&model.Notification{})
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("purge notifications failed")

		return
	}

	if result.RowsAffected > 0 {
		l.Info().Int64("purged", result.RowsAffected).Time("before", before).Msg("purged read notifications")
	}
}
