package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It wraps the driver error so the detail reaches the API response.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// wrapDBError classifies a driver error. Unique violations carry both
// ErrDatabaseError and ErrDuplicateKey.
func wrapDBError(err error, action string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%w: %w: %s (constraint: %s)", ErrDatabaseError, ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && (liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		strings.Contains(liteErr.Error(), "UNIQUE constraint failed")) {
		return fmt.Errorf("%w: %w: %s", ErrDatabaseError, ErrDuplicateKey, liteErr.Error())
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, action, err)
}
