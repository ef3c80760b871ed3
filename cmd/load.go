package cmd

import (
	"context"
	"errors"
	"fmt"

	"curriculum-loader/core/config"
	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/core/storage"
	"curriculum-loader/feature/curriculum"
	"curriculum-loader/feature/curriculum/ingest"
	"curriculum-loader/feature/curriculum/models"
	"curriculum-loader/feature/curriculum/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loadFile          string
	loadDir           string
	loadStoragePrefix string
	loadNoRetry       bool
)

// loadCmd reconciles one or more bundles into the database.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load curriculum bundles into the database",
	Long: `Load curriculum bundles into the database.

Each bundle is validated first and then applied in a single transaction:
the topic and lessons are upserted by slug, and each lesson's code examples
and quiz questions are fully replaced. Re-loading a bundle is safe.

Examples:
  # Load a single bundle document
  curriculum-loader load --file content/frontend/react-hooks.json

  # Load every bundle in a directory
  curriculum-loader load --dir content/frontend

  # Load bundles from the content bucket
  curriculum-loader load --storage-prefix bundles/frontend/`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "Load a single bundle document")
	loadCmd.Flags().StringVar(&loadDir, "dir", "", "Load every *.json bundle in a directory")
	loadCmd.Flags().StringVar(&loadStoragePrefix, "storage-prefix", "", "Load bundles from object storage under this prefix")
	loadCmd.Flags().BoolVar(&loadNoRetry, "no-retry", false, "Fail immediately instead of retrying retryable errors")

	RootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	bundles, err := gatherBundles(ctx, cfg)
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		return errors.New("no bundle documents found")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	loader := curriculum.NewLoader(db, l, curriculum.OptionsFromConfig(cfg.Loader))

	for _, bundle := range bundles {
		summary, err := loadOne(ctx, loader, bundle)
		if err != nil {
			return fmt.Errorf("failed to load bundle %s: %w", bundle.BundleID(), err)
		}
		l.Info("load summary",
			zap.String("bundle_id", summary.BundleID),
			zap.Any("inserted", summary.Inserted),
			zap.Any("updated", summary.Updated),
			zap.Any("deleted_children", summary.DeletedChildren),
			zap.Int64("duration_ms", summary.DurationMS),
		)
	}

	l.Info("all bundles loaded", zap.Int("count", len(bundles)))
	return nil
}

func loadOne(ctx context.Context, loader *curriculum.Loader, bundle *models.Bundle) (*reconcile.Summary, error) {
	if loadNoRetry {
		return loader.Load(ctx, bundle)
	}
	return loader.LoadWithRetry(ctx, bundle)
}

// gatherBundles resolves the bundle source flags. Exactly one source must be
// selected.
func gatherBundles(ctx context.Context, cfg *config.Config) ([]*models.Bundle, error) {
	sources := 0
	for _, flag := range []string{loadFile, loadDir, loadStoragePrefix} {
		if flag != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, errors.New("specify exactly one of --file, --dir, or --storage-prefix")
	}

	switch {
	case loadFile != "":
		bundle, err := ingest.ReadBundleFile(loadFile)
		if err != nil {
			return nil, err
		}
		return []*models.Bundle{bundle}, nil
	case loadDir != "":
		return ingest.ReadBundleDir(loadDir)
	default:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		return ingest.ReadBundlesFromStorage(ctx, client, cfg.Storage.Bucket, loadStoragePrefix)
	}
}
