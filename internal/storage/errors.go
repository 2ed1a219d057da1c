package storage

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when an operation targets a nonexistent id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned on a unique-constraint violation
	// (category name or username).
	ErrDuplicateKey = errors.New("duplicate key")
)

// isConstraintViolation reports whether err is a SQLite constraint error.
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
