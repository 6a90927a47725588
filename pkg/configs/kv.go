package configs

import (
	"github.com/spf13/viper"
)

// KV 存储类型.
const (
	KVTypeMemory = "memory"
	KVTypeRedis  = "redis"
)

// KVConfig 键值存储配置：未读通知计数、更新检查结果等热点数据的缓存.
type KVConfig struct {
	Type  string        `mapstructure:"type"  rule:"oneof=memory redis"`
	Redis RedisKVConfig `mapstructure:"redis"`
}

// RedisKVConfig Redis KV 配置.
type RedisKVConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// GetKVType 返回当前配置的 KV 类型.
func (c *KVConfig) GetKVType() string {
	return c.Type
}

// setDefaults 设置 KV 配置的默认值.
func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", KVTypeMemory)

	// Redis 默认值
	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.redis.password", "")
	v.SetDefault("kv.redis.db", 0)
}
