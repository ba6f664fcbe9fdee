package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/directory"
	"github.com/noah-isme/yupiflow-admin/pkg/config"
	"github.com/noah-isme/yupiflow-admin/pkg/logger"
)

var (
	serverURL    string
	token        string
	outputFormat string
	verbose      bool

	cfg    *config.Config
	logr   *zap.Logger
	client *directory.Client
)

var rootCmd = &cobra.Command{
	Use:           "yupictl",
	Short:         "Manage the YupiFlow user directory and partner registrations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err = logger.NewCLI(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if _, err := parseOutput(outputFormat); err != nil {
			return err
		}

		base := serverURL
		if base == "" {
			base = cfg.Directory.BaseURL
		}
		bearer := token
		if bearer == "" {
			bearer = cfg.Directory.Token
		}
		client, err = directory.NewClient(base, directory.Session{Token: bearer},
			directory.WithTimeout(cfg.Directory.Timeout),
			directory.WithLogger(logr),
		)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logr != nil {
			_ = logr.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (default DIRECTORY_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token (default DIRECTORY_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
}

// userMessage prefers the directory display message over the wrapped error chain.
func userMessage(err error) string {
	var valErr *directory.ValidationError
	var reqErr *directory.RequestError
	if errors.As(err, &valErr) || errors.As(err, &reqErr) || errors.Is(err, directory.ErrDeleteCancelled) {
		return directory.DisplayMessage(err)
	}
	return err.Error()
}
