// Package service 实现各业务领域逻辑，不处理 HTTP 细节.
// 服务实例从 context 中取出存储客户端，缺失直接 Fatal，调用方无需再判空.
package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	ctxPkg "github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/storage/db"
	"github.com/yeisme/regvault/pkg/internal/storage/files"
	"github.com/yeisme/regvault/pkg/internal/storage/kv"
	"github.com/yeisme/regvault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/regvault/pkg/log"
)

const (
	// DefaultPageSize 列表默认页大小.
	DefaultPageSize = 50
	// MaxPageSize 列表页大小上限.
	MaxPageSize = 200
)

// baseService 汇集各业务服务共用的存储依赖.
type baseService struct {
	dbClient    *db.Client
	filesClient *files.Client
	kvClient    *kv.Client
	mqClient    *mq.Client
}

// newBaseService 从 context 获取依赖实例.
func newBaseService(c context.Context) *baseService {
	dbc := ctxPkg.GetDBClient(c)
	fc := ctxPkg.GetFilesClient(c)
	kvc := ctxPkg.GetKVClient(c)
	mqc := ctxPkg.GetMQClient(c)

	// 为了安全起见，直接 Fatal 而不是返回 nil，依赖此服务就不需要再检查
	if dbc == nil || dbc.DB == nil || fc == nil || kvc == nil || mqc == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	return &baseService{
		dbClient:    dbc,
		filesClient: fc,
		kvClient:    kvc,
		mqClient:    mqc,
	}
}

// normalizePage 规整分页参数.
func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}

	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// fmtTime 时间统一输出为 UTC RFC3339.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// snapshotJSON 将对象序列化为 JSON 快照；失败返回空串，快照缺失不阻塞主操作.
func snapshotJSON(v any) string {
	data, err := sonic.Marshal(v)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("marshal history snapshot failed")

		return ""
	}

	return string(data)
}

// recordHistory 写一条变更历史；失败只记日志，永不影响主操作.
func (s *baseService) recordHistory(ctx context.Context, h model.ChangeHistory) {
	if err := s.dbClient.GetDB().WithContext(ctx).Create(&h).Error; err != nil {
		nlog.Logger().Warn().Err(err).
			Uint("regulation_id", h.RegulationID).
			Str("action", h.Action).
			Msg("record change history failed")
	}
}
