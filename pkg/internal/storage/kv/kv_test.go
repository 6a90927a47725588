package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/internal/storage/kv"
)

func newMemoryStore(t *testing.T) kv.KVStore {
	t.Helper()

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// TestMemoryKVBasic Set/Get/Exists/Delete 基本语义.
func TestMemoryKVBasic(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.Set(ctx, "update:last", []byte(`{"version":"1.1.8"}`), 0))

	value, err := store.Get(ctx, "update:last")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":"1.1.8"}`), value)

	exists, err := store.Exists(ctx, "update:last")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "update:last"))

	_, err = store.Get(ctx, "update:last")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	exists, err = store.Exists(ctx, "update:last")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestMemoryKVTTL 过期键按不存在处理.
func TestMemoryKVTTL(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.Set(ctx, "notify:unread:1", []byte("3"), 30*time.Millisecond))

	_, err := store.Get(ctx, "notify:unread:1")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = store.Get(ctx, "notify:unread:1")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	exists, err := store.Exists(ctx, "notify:unread:1")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestMemoryKVKeys 前缀匹配返回全部命中键.
func TestMemoryKVKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.Set(ctx, "update:notified:1.1.9", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "update:notified:1.2.0", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "notify:unread:7", []byte("2"), 0))

	keys, err := store.Keys(ctx, "update:notified:*")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

// TestClientFromConfig 按配置类型构建客户端.
func TestClientFromConfig(t *testing.T) {
	client, err := kv.New(context.Background(), &configs.KVConfig{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", []byte("v"), 0))

	value, err := client.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

// TestUnsupportedKVType 未注册类型直接报错.
func TestUnsupportedKVType(t *testing.T) {
	_, err := kv.NewKVStore(context.Background(), kv.KVType("etcd"), nil)
	assert.Error(t, err)
}
