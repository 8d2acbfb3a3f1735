package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper looks for
// the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if pgCode(err) == pgUniqueViolation {
		return true
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && (liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether a write was refused because another
// row still references (or must reference) the target.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if pgCode(err) == pgForeignKeyViolation {
		return true
	}
	// A delete blocked by a RESTRICT reference reports the extended code
	// SQLITE_CONSTRAINT_TRIGGER (1811) rather than _FOREIGNKEY (787).
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return true
		}
		if liteErr.Code == sqlite3.ErrConstraint && strings.Contains(liteErr.Error(), "FOREIGN KEY") {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") || strings.Contains(msg, "FOREIGN KEY constraint failed")
}

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
