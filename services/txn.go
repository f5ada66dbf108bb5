package services

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxTxAttempts = 3

// Postgres aborts one of two conflicting SERIALIZABLE transactions instead
// of blocking it. Those aborts are safe to retry; anything else is not.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// runSerializable executes fn inside a SERIALIZABLE transaction and retries
// a bounded number of times on serialization failures before giving up.
// The database is the only arbiter of conflicting concurrent operations;
// no in-process locks are taken.
func runSerializable(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = db.Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil || !retryableTxError(err) {
			return err
		}
	}
	return storagef("transaction aborted after %d attempts: %v", maxTxAttempts, err)
}

func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}
