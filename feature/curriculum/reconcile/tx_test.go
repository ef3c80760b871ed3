package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestRunInTransaction_CommitOnSuccess(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	ran := false
	err := RunInTransaction(context.Background(), db, TxOptions{}, func(tx *gorm.DB) error {
		ran = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_RollbackOnError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	cause := errors.New("write failed")
	err := RunInTransaction(context.Background(), db, TxOptions{}, func(tx *gorm.DB) error {
		return cause
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindFatal, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_PreservesErrorKind(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := RunInTransaction(context.Background(), db, TxOptions{}, func(tx *gorm.DB) error {
		return Errf(KindMissingParent, "category %q is not seeded", "frontend")
	})

	assert.Equal(t, KindMissingParent, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_ClassifiesCommitError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("server has gone away"))
	mock.ExpectRollback()

	err := RunInTransaction(context.Background(), db, TxOptions{}, func(tx *gorm.DB) error {
		return nil
	})

	assert.Error(t, err)
	assert.Equal(t, KindFatal, KindOf(err))
}

func TestRunInTransaction_BeginError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := RunInTransaction(context.Background(), db, TxOptions{}, func(tx *gorm.DB) error {
		t.Fatal("fn must not run when the transaction cannot open")
		return nil
	})

	assert.Error(t, err)
	assert.Equal(t, KindFatal, KindOf(err))
}

func TestRunInTransaction_Timeout(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	opts := TxOptions{Timeout: 10 * time.Millisecond}
	err := RunInTransaction(context.Background(), db, opts, func(tx *gorm.DB) error {
		time.Sleep(50 * time.Millisecond)
		return tx.Statement.Context.Err()
	})

	assert.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
}

func TestParseIsolation(t *testing.T) {
	assert.Equal(t, sql.LevelReadCommitted, ParseIsolation("read-committed"))
	assert.Equal(t, sql.LevelRepeatableRead, ParseIsolation("repeatable-read"))
	assert.Equal(t, sql.LevelSerializable, ParseIsolation("serializable"))
	assert.Equal(t, sql.LevelDefault, ParseIsolation(""))
	assert.Equal(t, sql.LevelDefault, ParseIsolation("chaos"))
}
