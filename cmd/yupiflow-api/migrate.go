package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/yupiflow-admin/pkg/database"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(cfg, database.Up, migrateSteps, logr)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(cfg, database.Down, migrateSteps, logr)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	migrateCmd.PersistentFlags().IntVar(&migrateSteps, "steps", 0, "number of migrations to apply (0 = all)")
}
