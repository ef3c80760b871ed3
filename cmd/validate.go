package cmd

import (
	"errors"
	"fmt"

	"curriculum-loader/core/config"
	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum/ingest"
	"curriculum-loader/feature/curriculum/models"
	"curriculum-loader/feature/curriculum/reconcile"
	"curriculum-loader/feature/curriculum/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	validateFile string
	validateDir  string
)

// validateCmd checks bundle documents without touching the database.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate bundle documents without writing anything",
	Long: `Validate bundle documents without writing anything.

Every violation is reported with the path of the offending field, so a
single run surfaces all problems in a bundle. The database is never
contacted.

Examples:
  curriculum-loader validate --file content/frontend/react-hooks.json
  curriculum-loader validate --dir content/frontend`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFile, "file", "", "Validate a single bundle document")
	validateCmd.Flags().StringVar(&validateDir, "dir", "", "Validate every *.json bundle in a directory")

	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	var bundles []*models.Bundle
	switch {
	case validateFile != "" && validateDir == "":
		bundle, err := ingest.ReadBundleFile(validateFile)
		if err != nil {
			return err
		}
		bundles = []*models.Bundle{bundle}
	case validateDir != "" && validateFile == "":
		bundles, err = ingest.ReadBundleDir(validateDir)
		if err != nil {
			return err
		}
	default:
		return errors.New("specify exactly one of --file or --dir")
	}
	if len(bundles) == 0 {
		return errors.New("no bundle documents found")
	}

	failed := 0
	for _, bundle := range bundles {
		errs := validate.Bundle(bundle)
		if len(errs) == 0 {
			l.Info("bundle valid", zap.String("bundle_id", bundle.BundleID()))
			continue
		}
		failed++
		for _, fe := range errs {
			l.Warn("validation error",
				zap.String("bundle_id", bundle.BundleID()),
				zap.String("path", fe.Path),
				zap.String("message", fe.Message),
			)
		}
	}

	if failed > 0 {
		return reconcile.Errf(reconcile.KindValidation,
			"%d of %d bundles failed validation", failed, len(bundles))
	}
	l.Info("all bundles valid", zap.Int("count", len(bundles)))
	return nil
}
