// Package configs 管理应用程序配置，包括数据库、托管文件存储、认证、更新检查、
// 数据同步等配置信息. 支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	// AppName 应用名称.
	AppName = "regvault"
	// AppVersion 当前应用版本，更新检查以此为基准.
	AppVersion = "1.1.8"
)

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		DB      DBConfig      `mapstructure:"db"`      // 数据库配置
		Storage StorageConfig `mapstructure:"storage"` // 托管文件存储配置
		Auth    AuthConfig    `mapstructure:"auth"`    // 认证配置
		Update  UpdateConfig  `mapstructure:"update"`  // 更新检查配置
		Sync    SyncConfig    `mapstructure:"sync"`    // 数据同步 / 发布推送配置
		MQ      MQConfig      `mapstructure:"mq"`      // 消息队列配置
		KV      KVConfig      `mapstructure:"kv"`      // 键值缓存配置
		S3      S3Config      `mapstructure:"s3"`      // 对象存储（异地备份）配置
		Server  ServerConfig  `mapstructure:"server"`  // 服务器配置
		Log     LogConfig     `mapstructure:"log"`     // 日志配置
		Metrics MetricsConfig `mapstructure:"metrics"` // 监控配置
		Tracing TracingConfig `mapstructure:"tracing"` // 追踪配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}
		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("REGVAULT")

	// 没有配置文件时使用默认值，不视为错误（桌面部署开箱即用）
	if err := appViper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig  ServerConfig
		dbConfig      DBConfig
		storageConfig StorageConfig
		authConfig    AuthConfig
		updateConfig  UpdateConfig
		syncConfig    SyncConfig
		mqConfig      MQConfig
		kvConfig      KVConfig
		s3Config      S3Config
		logConfig     LogConfig
		metricsConfig MetricsConfig
		tracingConfig TracingConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	storageConfig.setDefaults(v)
	authConfig.setDefaults(v)
	updateConfig.setDefaults(v)
	syncConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	kvConfig.setDefaults(v)
	s3Config.setDefaults(v)
	logConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
