package cmd

import (
	"context"
	"fmt"

	"curriculum-loader/core/config"
	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum"
	"curriculum-loader/feature/curriculum/ingest"

	"github.com/spf13/cobra"
)

var seedFile string

// seedCmd provisions the category set the loader expects to find.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the category set",
	Long: `Seed the category set from a JSON document.

Categories are provisioned ahead of content loads. A bundle that names a
category absent from this set is rejected, never auto-created.

Example:
  curriculum-loader seed --file content/categories.json`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Category document to seed from (required)")
	_ = seedCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cats, err := ingest.ReadCategoriesFile(seedFile)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	loader := curriculum.NewLoader(db, l, curriculum.OptionsFromConfig(cfg.Loader))
	if _, _, err := loader.SeedCategories(context.Background(), cats); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}
