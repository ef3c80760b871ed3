package cmd

import (
	"context"
	"errors"
	"fmt"

	"curriculum-loader/core/config"
	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum/reconcile"
	"curriculum-loader/feature/curriculum/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// planCmd reports what a load would change, without writing anything.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a load would change, without writing anything",
	Long: `Show what a load would change, without writing anything.

For each bundle this prints the creates, updates, and child replacements a
load would perform against the current database state. The plan is advisory:
a concurrent load can change the store between planning and loading.

Examples:
  curriculum-loader plan --file content/frontend/react-hooks.json
  curriculum-loader plan --dir content/frontend`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&loadFile, "file", "", "Plan a single bundle document")
	planCmd.Flags().StringVar(&loadDir, "dir", "", "Plan every *.json bundle in a directory")
	planCmd.Flags().StringVar(&loadStoragePrefix, "storage-prefix", "", "Plan bundles from object storage under this prefix")

	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	for _, bundle := range bundles {
		if errs := validate.Bundle(bundle); len(errs) > 0 {
			return reconcile.NewError(reconcile.KindValidation,
				fmt.Errorf("bundle %s: %w", bundle.BundleID(), errs))
		}

		plan, err := reconcile.BuildPlan(db.WithContext(ctx), bundle)
		if err != nil {
			return fmt.Errorf("failed to plan bundle %s: %w", bundle.BundleID(), err)
		}

		for _, action := range plan.Actions {
			l.Info("planned action",
				zap.String("bundle_id", plan.BundleID),
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key),
				zap.String("reason", action.Reason),
			)
		}
		l.Info("plan summary",
			zap.String("bundle_id", plan.BundleID),
			zap.Int("topic_creates", plan.Summary.TopicCreates),
			zap.Int("topic_updates", plan.Summary.TopicUpdates),
			zap.Int("lesson_creates", plan.Summary.LessonCreates),
			zap.Int("lesson_updates", plan.Summary.LessonUpdates),
			zap.Int("child_deletes", plan.Summary.ChildDeletes),
			zap.Int("child_inserts", plan.Summary.ChildInserts),
		)
	}
	return nil
}
