package reconcile

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TxOptions controls the atomic unit of work around one bundle load.
type TxOptions struct {
	// Timeout bounds the whole transaction. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration

	// Isolation is the transaction isolation level. READ COMMITTED is
	// sufficient for the natural-key upsert pattern because the unique
	// constraints are the final guarantor of uniqueness.
	Isolation sql.IsolationLevel
}

// ParseIsolation maps a configuration string to an isolation level.
// Unrecognized values fall back to the driver default.
func ParseIsolation(name string) sql.IsolationLevel {
	switch strings.ToLower(name) {
	case "read-committed":
		return sql.LevelReadCommitted
	case "repeatable-read":
		return sql.LevelRepeatableRead
	case "serializable":
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}

// RunInTransaction wraps fn in a single transaction: commit on success,
// rollback on error, panic, cancellation, or timeout. The connection is
// released on every exit path; partial writes never persist.
func RunInTransaction(ctx context.Context, db *gorm.DB, opts TxOptions, fn func(tx *gorm.DB) error) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var tx *gorm.DB
	if opts.Isolation != sql.LevelDefault {
		tx = db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: opts.Isolation})
	} else {
		tx = db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		return Classify(tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return Classify(err)
	}

	if err := tx.Commit().Error; err != nil {
		return Classify(err)
	}
	committed = true
	return nil
}
