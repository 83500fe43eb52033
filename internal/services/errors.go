package services

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	// Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConflictError reports which field collided with an existing row.
type ConflictError struct {
	Field  string
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict on " + e.Field + ": " + e.Reason
}

// Is makes errors.Is(err, ErrConflict) hold.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
