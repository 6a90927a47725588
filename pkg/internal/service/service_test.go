package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/regvault/pkg/configs"
	ctxPkg "github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/storage"
	dbc "github.com/yeisme/regvault/pkg/internal/storage/db"
	filesc "github.com/yeisme/regvault/pkg/internal/storage/files"
	kvc "github.com/yeisme/regvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/regvault/pkg/internal/storage/mq"
)

// newTestContext 构造一个带完整存储管理器的 context：
// 内存 SQLite、临时托管目录、内存 KV 与进程内消息队列.
func newTestContext(t *testing.T) context.Context {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&model.User{},
		&model.Regulation{},
		&model.RegulationDocument{},
		&model.CodeFile{},
		&model.Tag{},
		&model.Parameter{},
		&model.ChangeHistory{},
		&model.Notification{},
	))

	filesClient, err := filesc.New(&configs.StorageConfig{DataDir: t.TempDir()})
	require.NoError(t, err)

	kvClient, err := kvc.New(context.Background(), &configs.KVConfig{Type: "memory"})
	require.NoError(t, err)

	mqClient, err := mqc.New(context.Background(), &configs.MQConfig{Type: configs.MQTypeChannel})
	require.NoError(t, err)

	mgr := &storage.Manager{
		DB:    &dbc.Client{DB: gdb},
		Files: filesClient,
		KV:    kvClient,
		MQ:    mqClient,
	}

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

// mustDB 从测试 context 取底层 gorm 连接，用于断言表内数据.
func mustDB(t *testing.T, ctx context.Context) *gorm.DB {
	t.Helper()

	client := ctxPkg.GetDBClient(ctx)
	require.NotNil(t, client)

	return client.GetDB()
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	require.Equal(t, 1, page)
	require.Equal(t, DefaultPageSize, size)

	page, size = normalizePage(3, 10)
	require.Equal(t, 3, page)
	require.Equal(t, 10, size)

	_, size = normalizePage(1, MaxPageSize+100)
	require.Equal(t, MaxPageSize, size)
}
