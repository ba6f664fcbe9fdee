package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/pkg/config"
	"github.com/noah-isme/yupiflow-admin/pkg/logger"
)

// @title YupiFlow Admin API
// @version 1.0.0
// @description User directory and partner registration management for YupiMall.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	cfg  *config.Config
	logr *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "yupiflow-api",
	Short:         "YupiFlow directory API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err = logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logr != nil {
			_ = logr.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yupiflow-api: %v\n", err)
		os.Exit(1)
	}
}
