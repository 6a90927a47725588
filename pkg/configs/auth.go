package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAuthEnabled          = true
	DefaultTokenExpireMinutes   = 480 // 会话令牌有效期（分钟），一个工作日
	DefaultBcryptCost           = 10
	DefaultAuthSecret           = "regvault-dev-secret-change-me"
	DefaultFirstRunAdminEnabled = true // 首次启动时自动创建 admin 账户
)

// AuthConfig 认证相关配置：登录会话令牌与密码哈希.
type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"` // 开启认证校验
	// Secret JWT 签名密钥；令牌仅在本进程内签发和校验，不对外方验证
	Secret             string   `mapstructure:"secret"`
	TokenExpireMinutes int      `mapstructure:"token_expire_minutes" rule:"min=1"`
	BcryptCost         int      `mapstructure:"bcrypt_cost"          rule:"min=4,max=31"`
	SkipPaths          []string `mapstructure:"skip_paths"` // 跳过认证的路径前缀
	// FirstRunAdmin 数据库中没有任何用户时自动注册一个 admin/admin 账户，便于首次运行
	FirstRunAdmin bool `mapstructure:"first_run_admin"`
}

// TokenTTL 返回令牌有效期.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireMinutes) * time.Minute
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("auth.secret", DefaultAuthSecret)
	v.SetDefault("auth.token_expire_minutes", DefaultTokenExpireMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth.first_run_admin", DefaultFirstRunAdminEnabled)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/api/v1/auth/login",
		"/api/v1/auth/register",
		"/swagger",
	})
}
