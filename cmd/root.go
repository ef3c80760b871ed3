package cmd

import (
	"fmt"
	"os"

	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "curriculum-loader",
	Short: "Curriculum Content Loader",
	Long: `Curriculum Loader seeds and reconciles curriculum content
(topics, lessons, code examples, quiz questions) into the platform database.
Loads are idempotent: the same bundle can be applied any number of times.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. The process exit code describes the
// failure class: 0 success, 1 validation failure, 2 retryable database
// error, 3 fatal database error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the application logger in console format
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch reconcile.KindOf(err) {
	case reconcile.KindValidation:
		return 1
	case reconcile.KindConstraintConflict, reconcile.KindTransient:
		return 2
	case reconcile.KindMissingParent, reconcile.KindFatal:
		return 3
	default:
		return 1
	}
}
