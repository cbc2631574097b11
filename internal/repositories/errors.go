package repositories

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when no record matches the query, including the
	// tenant-scope guard. Callers cannot distinguish "wrong library" from
	// "does not exist"; that is intentional.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError wraps unexpected database/driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repository methods
// that participate in the admission conversion transaction can be called with
// either.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}
