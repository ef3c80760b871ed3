package curriculum

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"curriculum-loader/core/config"
	"curriculum-loader/core/database"
	"curriculum-loader/core/logger"
	"curriculum-loader/feature/curriculum/models"
	"curriculum-loader/feature/curriculum/reconcile"
	"curriculum-loader/feature/curriculum/schema"
	"curriculum-loader/feature/curriculum/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options controls a Loader instance.
type Options struct {
	// TxTimeout bounds each bundle transaction.
	TxTimeout time.Duration
	// Isolation is the transaction isolation level.
	Isolation sql.IsolationLevel
	// MaxRetries caps LoadWithRetry attempts for retryable failures.
	MaxRetries int
	// VerifySchema runs the schema inspector before the first write.
	VerifySchema bool
}

// OptionsFromConfig maps the loader configuration section to Options.
func OptionsFromConfig(cfg config.LoaderConfig) Options {
	return Options{
		TxTimeout:    time.Duration(cfg.TxTimeoutSeconds) * time.Second,
		Isolation:    reconcile.ParseIsolation(cfg.Isolation),
		MaxRetries:   cfg.MaxRetries,
		VerifySchema: cfg.VerifySchema,
	}
}

// Loader runs bundle loads end to end: validate, open a transaction,
// reconcile, commit or roll back, and report a summary.
type Loader struct {
	db   *gorm.DB
	log  *zap.Logger
	opts Options
}

// NewLoader creates a loader bound to a database connection.
func NewLoader(db *gorm.DB, log *zap.Logger, opts Options) *Loader {
	return &Loader{db: db, log: log, opts: opts}
}

// Load reconciles one bundle in a single transaction. On success it returns
// the load summary; on any error the store is left in its pre-transaction
// state and the returned error carries a kind from the reconcile taxonomy.
func (l *Loader) Load(ctx context.Context, bundle *models.Bundle) (*reconcile.Summary, error) {
	runID := uuid.NewString()
	log := logger.WithRun(l.log, runID).With(zap.String("bundle_id", bundle.BundleID()))

	log.Debug("bundle received", zap.String("state", string(reconcile.StateReceived)))

	if errs := validate.Bundle(bundle); len(errs) > 0 {
		log.Warn("bundle failed validation",
			zap.String("state", string(reconcile.StateValidationFailed)),
			zap.Int("error_count", len(errs)),
			zap.String("first_error", errs[0].Error()),
		)
		return nil, reconcile.NewError(reconcile.KindValidation, errs)
	}
	log.Debug("bundle validated", zap.String("state", string(reconcile.StateValidated)))

	if l.opts.VerifySchema {
		if err := l.VerifySchema(); err != nil {
			return nil, err
		}
	}

	log.Debug("writing bundle", zap.String("state", string(reconcile.StateWriting)))

	var summary *reconcile.Summary
	txOpts := reconcile.TxOptions{Timeout: l.opts.TxTimeout, Isolation: l.opts.Isolation}
	err := reconcile.RunInTransaction(ctx, l.db, txOpts, func(tx *gorm.DB) error {
		s, err := reconcile.NewReconciler(tx).Apply(bundle)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	if err != nil {
		log.Error("bundle rolled back",
			zap.String("state", string(reconcile.StateRolledBack)),
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("bundle committed",
		zap.String("state", string(reconcile.StateCommitted)),
		zap.Int("topics_inserted", summary.Inserted.Topics),
		zap.Int("lessons_inserted", summary.Inserted.Lessons),
		zap.Int("examples_inserted", summary.Inserted.Examples),
		zap.Int("questions_inserted", summary.Inserted.Questions),
		zap.Int("topics_updated", summary.Updated.Topics),
		zap.Int("lessons_updated", summary.Updated.Lessons),
		zap.Int64("duration_ms", summary.DurationMS),
	)
	return summary, nil
}

// LoadWithRetry wraps Load with bounded retries for retryable failures.
// Loads are idempotent, so retrying with the original bundle is safe.
func (l *Loader) LoadWithRetry(ctx context.Context, bundle *models.Bundle) (*reconcile.Summary, error) {
	attempts := l.opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		summary, err := l.Load(ctx, bundle)
		if err == nil {
			return summary, nil
		}
		lastErr = err
		if !reconcile.IsRetryable(err) {
			return nil, err
		}
		if attempt == attempts {
			break
		}

		backoff := time.Duration(attempt) * 500 * time.Millisecond
		l.log.Warn("retrying bundle after retryable failure",
			zap.String("bundle_id", bundle.BundleID()),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, reconcile.Classify(ctx.Err())
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

// VerifySchema checks the live database against the declared table shapes.
// A mismatch is fatal: no load should run against a half-migrated store.
func (l *Loader) VerifySchema() error {
	if err := database.VerifyTables(l.db, schema.ExpectedColumns()); err != nil {
		return reconcile.NewError(reconcile.KindFatal, err)
	}
	return nil
}

// SeedCategories upserts the pre-seeded category set by slug. This is the
// explicit operator action the loader itself never performs.
func (l *Loader) SeedCategories(ctx context.Context, cats []models.CategoryInput) (inserted, updated int, err error) {
	if errs := validate.Categories(cats); len(errs) > 0 {
		return 0, 0, reconcile.NewError(reconcile.KindValidation, errs)
	}

	txOpts := reconcile.TxOptions{Timeout: l.opts.TxTimeout, Isolation: l.opts.Isolation}
	err = reconcile.RunInTransaction(ctx, l.db, txOpts, func(tx *gorm.DB) error {
		for _, in := range cats {
			var row models.Category
			err := tx.Where("slug = ?", in.Slug).Take(&row).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				row = models.Category{Name: in.Name, Slug: in.Slug}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				inserted++
			case err != nil:
				return err
			default:
				if err := tx.Model(&models.Category{}).Where("id = ?", row.ID).
					Update("name", in.Name).Error; err != nil {
					return err
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	l.log.Info("categories seeded",
		zap.Int("inserted", inserted),
		zap.Int("updated", updated),
	)
	return inserted, updated, nil
}
