// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and is shared by all loader commands.
//
// # Run Correlation
//
// Each bundle load is assigned a run ID. The WithRun helper attaches it to the
// log entry, ensuring that all logs related to a specific load can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production jobs) or console (interactive CLI)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Load started")
//
//	// Inside a load run:
//	l := logger.WithRun(log, runID)
//	l.Error("Load failed", zap.Error(err))
package logger
