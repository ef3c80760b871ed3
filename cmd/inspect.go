package cmd

import (
	"fmt"

	"curriculum-loader/core/config"
	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum"

	"github.com/spf13/cobra"
)

// inspectCmd verifies the live schema against the declared table shapes.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Verify the database schema matches the declared tables",
	Long: `Verify that every table and column the loader writes to exists in the
configured database. A mismatch exits with the fatal error code; run the
migrate command to bring the schema up to date.`,
	RunE: runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
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

	loader := curriculum.NewLoader(db, l, curriculum.OptionsFromConfig(cfg.Loader))
	if err := loader.VerifySchema(); err != nil {
		return err
	}

	l.Info("database schema matches the declared tables")
	return nil
}
