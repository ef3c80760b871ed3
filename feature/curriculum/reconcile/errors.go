package reconcile

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Kind classifies a load failure. The caller decides retry behavior from the
// kind alone: validation and fatal kinds must never be retried automatically,
// conflict and transient kinds are safe to retry with the original bundle.
type Kind int

const (
	// KindValidation means the bundle violates a structural invariant.
	KindValidation Kind = iota + 1
	// KindMissingParent means a referenced category slug does not exist.
	KindMissingParent
	// KindConstraintConflict means a write hit a uniqueness or foreign-key
	// constraint, typically due to a concurrent load of the same bundle.
	KindConstraintConflict
	// KindTransient covers connection loss, deadlocks, lock timeouts, and
	// cancelled or expired contexts.
	KindTransient
	// KindFatal covers permission problems, schema mismatches, and anything
	// the loader cannot classify. Requires operator intervention.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMissingParent:
		return "missing_parent"
	case KindConstraintConflict:
		return "constraint_conflict"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is the single error value a caller receives from a load: a kind plus
// the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with the given kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errf builds a kinded error from a format string.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the kind from an error chain, or 0 when the error carries
// no classification.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}

// IsRetryable reports whether a failed load may be retried with the same
// bundle. Loads are idempotent, so retrying a conflict or transient failure
// is always safe.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConstraintConflict, KindTransient:
		return true
	default:
		return false
	}
}

// MySQL server error numbers the classifier recognizes.
const (
	mysqlErrDupEntry         = 1062
	mysqlErrLockWaitTimeout  = 1205
	mysqlErrDeadlock         = 1213
	mysqlErrNoReferencedRow  = 1452
	mysqlErrDupEntryWithKey  = 1586
	mysqlErrAccessDenied     = 1044
	mysqlErrUserAccessDenied = 1045
	mysqlErrBadField         = 1054
	mysqlErrTableAccess      = 1142
	mysqlErrNoSuchTable      = 1146
)

// Classify wraps a raw database error into the loader's taxonomy. Errors
// that already carry a kind pass through unchanged. Unknown database errors
// classify as fatal: the loader must not auto-retry what it cannot identify.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var le *Error
	if errors.As(err, &le) {
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDupEntry, mysqlErrDupEntryWithKey, mysqlErrNoReferencedRow:
			return NewError(KindConstraintConflict, err)
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return NewError(KindTransient, err)
		case mysqlErrAccessDenied, mysqlErrUserAccessDenied, mysqlErrBadField,
			mysqlErrTableAccess, mysqlErrNoSuchTable:
			return NewError(KindFatal, err)
		}
		return NewError(KindFatal, err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn):
		return NewError(KindTransient, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewError(KindConstraintConflict, err)
	}

	return NewError(KindFatal, err)
}
