package cli

import (
	"fmt"

	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
	Long:  `Apply or revert the migrations under MIGRATIONS_PATH against PGSQL_URL.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateCmd(migrationUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert every migration, dropping all stored records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateCmd(migrationDown)
	},
}

func runMigrateCmd(direction migrationDirection) error {
	logger := newLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return runMigrations(cfg, logger, direction)
}
