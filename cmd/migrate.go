package cmd

import (
	"fmt"

	"curriculum-loader/core/config"
	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum/schema"

	"github.com/spf13/cobra"
)

// migrateCmd applies the embedded schema migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Long: `Apply the embedded schema migrations to the configured database.

Migrations are versioned and idempotent: running migrate against an
up-to-date database is a no-op.`,
	RunE: runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to unwrap database handle: %w", err)
	}

	if err := schema.Migrate(sqlDB, cfg.Database.Name); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	l.Info("database schema is up to date")
	return nil
}
