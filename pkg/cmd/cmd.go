// Package cmd contains the command line applications for the project.
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeisme/regvault/pkg/app"
	"github.com/yeisme/regvault/pkg/log"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "regvault",
		Short: "并网法规文档管理服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
)

// runServe 装配应用并运行到收到退出信号.
func runServe() error {
	a := app.NewApp(configPath)
	defer a.Shutdown()

	errCh := make(chan error, 1)

	go func() {
		errCh <- a.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")

		return nil
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	rootCmd.AddCommand(serveCmd)
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()

	return rootCmd.Execute()
}
