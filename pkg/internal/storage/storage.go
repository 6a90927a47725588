// Package storage 聚合所有存储资源：数据库、托管文件目录、KV 缓存、消息队列与可选的 S3 备份.
//
// Example:
//
// 初始化
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // 处理错误
//	}
//
// 获取存储客户端
//
//	dbClient := mgr.GetDBClient()
//	filesClient := mgr.GetFilesClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/regvault/pkg/configs"
	dbc "github.com/yeisme/regvault/pkg/internal/storage/db"
	filesc "github.com/yeisme/regvault/pkg/internal/storage/files"
	kvc "github.com/yeisme/regvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/regvault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/regvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/regvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB    *dbc.Client
	Files *filesc.Client
	KV    *kvc.Client
	MQ    *mqc.Client
	S3    *s3c.Client // S3 未启用时为 nil
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置. 重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		if m.DB, err = dbc.New(ctx, &cfg.DB); err != nil {
			return
		}

		// 托管文件目录
		if m.Files, err = filesc.New(&cfg.Storage); err != nil {
			return
		}

		// KV
		if m.KV, err = kvc.New(ctx, &cfg.KV); err != nil {
			return
		}

		// MQ
		if m.MQ, err = mqc.New(ctx, &cfg.MQ); err != nil {
			return
		}

		// S3 仅在启用异地备份时连接
		if cfg.S3.Enabled {
			if m.S3, err = s3c.New(ctx, &cfg.S3); err != nil {
				return
			}
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// Close 释放存储资源.
func (m *Manager) Close() error {
	var firstErr error

	if m.MQ != nil {
		if err := m.MQ.Close(); err != nil {
			firstErr = err
		}
	}

	if m.KV != nil {
		if err := m.KV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.DB != nil {
		if sqlDB, err := m.DB.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetFilesClient 获取托管文件客户端.
func (m *Manager) GetFilesClient() *filesc.Client {
	return m.Files
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetS3Client 获取 S3 客户端，未启用时返回 nil.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}
