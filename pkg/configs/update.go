package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultUpdateCheckURL     = "https://raw.githubusercontent.com/yeisme/regvault/main/version.json"
	DefaultUpdateTimeout      = 10      // 描述符拉取超时（秒）
	DefaultUpdateCheckEnabled = true    // 是否启用定时更新检查
	DefaultUpdateCheckCron    = "0 */4 * * *" // 每 4 小时检查一次
)

// UpdateConfig 版本更新检查配置.
type UpdateConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CheckURL string `mapstructure:"check_url" rule:"url"`
	Timeout  int    `mapstructure:"timeout"   rule:"min=1,max=120"`
	// CheckCron 定时检查的 cron 表达式
	CheckCron string `mapstructure:"check_cron"`
}

// TimeoutDuration 返回拉取超时.
func (c *UpdateConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *UpdateConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("update.enabled", DefaultUpdateCheckEnabled)
	v.SetDefault("update.check_url", DefaultUpdateCheckURL)
	v.SetDefault("update.timeout", DefaultUpdateTimeout)
	v.SetDefault("update.check_cron", DefaultUpdateCheckCron)
}
