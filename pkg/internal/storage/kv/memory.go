package kv

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yeisme/regvault/pkg/configs"
)

// MemoryKV 基于 sync.Map 的内存 KV 实现，TTL 由包装器惰性过期.
type MemoryKV struct {
	data sync.Map // 并发安全的 map
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(ctx context.Context, cfg *configs.KVConfig) (KVStore, error) {
	// 内存实现不需要特殊配置
	return &MemoryKV{}, nil
}

// Get 获取键的值，已过期的键按不存在处理并顺手删除.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid value type for key: %s", key)
	}

	raw, expired, _, err := decodeWithTTL(data, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		m.data.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	// 返回副本
	result := make([]byte, len(raw))
	copy(result, raw)

	return result, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	data, _, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	// 复制值
	cp := make([]byte, len(data))
	copy(cp, data)

	m.data.Store(key, cp)

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := m.Get(ctx, key); err != nil {
		return false, nil
	}

	return true, nil
}

// Keys 获取所有键. pattern 支持空（全部）、精确匹配和尾部 "*" 前缀匹配，
// 与 Redis 实现常用的 "prefix:*" 用法对齐.
func (m *MemoryKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix, wildcard := strings.CutSuffix(pattern, "*")

	keys := make([]string, 0)

	m.data.Range(func(key, value any) bool {
		k, ok := key.(string)
		if !ok {
			return true // 继续遍历
		}

		switch {
		case pattern == "":
			keys = append(keys, k)
		case wildcard && strings.HasPrefix(k, prefix):
			keys = append(keys, k)
		case k == pattern:
			keys = append(keys, k)
		}

		return true
	})

	return keys, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
