// Package app 提供应用程序的初始化、路由装配与生命周期管理.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/internal/jobs"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/router"
	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/storage"
	"github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/metrics"
	"github.com/yeisme/regvault/pkg/middleware"
	"github.com/yeisme/regvault/pkg/scheduler"
	"github.com/yeisme/regvault/pkg/tracing"
)

// App 聚合 HTTP 引擎与后台组件.
type App struct {
	Engine *gin.Engine

	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
	baseCtx contextPkg.Context
	cancel  contextPkg.CancelFunc
}

// NewApp 按配置装配整个应用：存储、调度器、事件订阅与路由.
func NewApp(configPath string) *App {
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	config := configs.GetConfig()

	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := contextPkg.WithCancel(contextPkg.Background())

	manager, err := storage.Init(ctx)
	if err != nil {
		cancel()
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// 后台任务与事件订阅共用这个携带存储管理器的根 context
	baseCtx := context.WithStorageManager(ctx, manager)

	if err := Migrate(manager); err != nil {
		cancel()
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	if err := service.NewAuthService(baseCtx).EnsureFirstRunAdmin(baseCtx); err != nil {
		log.Logger().Warn().Err(err).Msg("ensure first-run admin failed")
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		cancel()
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		log.Logger().Warn().Err(err).Msg("register cron jobs failed")
	}

	sched.Start()

	startEventSubscribers(baseCtx)

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.GinLoggerMiddleware(),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
		middleware.AuthMiddleware(config.Auth),
	)

	apiGroup := engine.Group("/api/v1")
	router.RegisterAPIRoutes(apiGroup)
	router.RegisterSwaggerRoute(engine)
	router.RegisterFallbackRoute(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
		baseCtx: baseCtx,
		cancel:  cancel,
	}
}

// Run 启动 HTTP 服务，阻塞到进程退出.
func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// Shutdown 停掉调度器与事件订阅并释放存储连接.
func (a *App) Shutdown() {
	a.cancel()

	if err := a.sched.Stop(); err != nil {
		log.Logger().Warn().Err(err).Msg("stop scheduler failed")
	}

	if err := a.manager.Close(); err != nil {
		log.Logger().Warn().Err(err).Msg("close storage failed")
	}

	if err := tracing.ShutdownTracer(contextPkg.Background()); err != nil {
		log.Logger().Warn().Err(err).Msg("shutdown tracer failed")
	}
}

// Migrate 同步全部业务表结构.
func Migrate(manager *storage.Manager) error {
	return manager.GetDBClient().GetDB().AutoMigrate(
		&model.User{},
		&model.Regulation{},
		&model.RegulationDocument{},
		&model.CodeFile{},
		&model.Tag{},
		&model.Parameter{},
		&model.ChangeHistory{},
		&model.Notification{},
	)
}
