package reconcile

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify_MySQLErrors(t *testing.T) {
	cases := []struct {
		name   string
		number uint16
		want   Kind
	}{
		{"Duplicate Entry", 1062, KindConstraintConflict},
		{"Duplicate Entry With Key", 1586, KindConstraintConflict},
		{"No Referenced Row", 1452, KindConstraintConflict},
		{"Lock Wait Timeout", 1205, KindTransient},
		{"Deadlock", 1213, KindTransient},
		{"Access Denied", 1044, KindFatal},
		{"User Access Denied", 1045, KindFatal},
		{"Bad Field", 1054, KindFatal},
		{"Table Access Denied", 1142, KindFatal},
		{"No Such Table", 1146, KindFatal},
		{"Unknown Server Error", 9999, KindFatal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify(&mysql.MySQLError{Number: tc.number, Message: "boom"})
			assert.Equal(t, tc.want, KindOf(err))
		})
	}
}

func TestClassify_ConnectionAndContext(t *testing.T) {
	assert.Equal(t, KindTransient, KindOf(Classify(context.DeadlineExceeded)))
	assert.Equal(t, KindTransient, KindOf(Classify(context.Canceled)))
	assert.Equal(t, KindTransient, KindOf(Classify(driver.ErrBadConn)))
	assert.Equal(t, KindTransient, KindOf(Classify(mysql.ErrInvalidConn)))
	assert.Equal(t, KindConstraintConflict, KindOf(Classify(gorm.ErrDuplicatedKey)))
}

func TestClassify_WrappedErrors(t *testing.T) {
	// A kind deep in the chain still classifies by the underlying cause
	err := fmt.Errorf("apply failed: %w", &mysql.MySQLError{Number: 1062})
	assert.Equal(t, KindConstraintConflict, KindOf(Classify(err)))

	err = fmt.Errorf("tx failed: %w", context.DeadlineExceeded)
	assert.Equal(t, KindTransient, KindOf(Classify(err)))
}

func TestClassify_PassThrough(t *testing.T) {
	orig := Errf(KindMissingParent, "category %q is not seeded", "frontend")
	assert.Same(t, error(orig), Classify(orig))

	wrapped := fmt.Errorf("load failed: %w", orig)
	classified := Classify(wrapped)
	assert.Equal(t, KindMissingParent, KindOf(classified))
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, Classify(nil))
}

func TestClassify_UnknownError(t *testing.T) {
	err := Classify(errors.New("something unexpected"))
	assert.Equal(t, KindFatal, KindOf(err))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Errf(KindConstraintConflict, "dup")))
	assert.True(t, IsRetryable(Errf(KindTransient, "deadlock")))
	assert.False(t, IsRetryable(Errf(KindValidation, "bad bundle")))
	assert.False(t, IsRetryable(Errf(KindMissingParent, "no category")))
	assert.False(t, IsRetryable(Errf(KindFatal, "no table")))
	assert.False(t, IsRetryable(errors.New("unclassified")))
	assert.False(t, IsRetryable(nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", Errf(KindValidation, "bad"))))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "missing_parent", KindMissingParent.String())
	assert.Equal(t, "constraint_conflict", KindConstraintConflict.String())
	assert.Equal(t, "transient", KindTransient.String())
	assert.Equal(t, "fatal", KindFatal.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
