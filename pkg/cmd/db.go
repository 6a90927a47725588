package cmd

import (
	contextPkg "context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/regvault/pkg/app"
	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/context"
	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/storage"
	"github.com/yeisme/regvault/pkg/internal/storage/db"
	"github.com/yeisme/regvault/pkg/log"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands",
	}

	dbListCmd = &cobra.Command{
		Use:   "ls",
		Short: "list all registered database types",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")
			for _, dbType := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), " - "+string(dbType))
			}
		},
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "sync all table schemas against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cleanup, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.Migrate(manager); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "database schema migrated")

			return nil
		},
	}

	dbSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "create the first-run admin account if no user exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cleanup, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.Migrate(manager); err != nil {
				return err
			}

			baseCtx := context.WithStorageManager(cmd.Context(), manager)
			if err := service.NewAuthService(baseCtx).EnsureFirstRunAdmin(baseCtx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "seed completed")

			return nil
		},
	}
)

// openStorage 为一次性的 CLI 子命令初始化配置与存储连接.
func openStorage(ctx contextPkg.Context) (*storage.Manager, func(), error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, nil, err
	}

	log.Init()

	manager, err := storage.Init(ctx)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := manager.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("close storage failed")
		}
	}

	return manager, cleanup, nil
}

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbSeedCmd)
}
