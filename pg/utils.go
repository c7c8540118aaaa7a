package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the registry reacts to.
const (
	pgUniqueViolationCode      = "23505"
	pgForeignKeyViolationCode  = "23503"
	pgSerializationFailureCode = "40001"
	pgDeadlockDetectedCode     = "40P01"
)

// IsConflict checks if the error is a PostgreSQL unique constraint violation.
func IsConflict(err error) bool {
	return hasPgCode(err, pgUniqueViolationCode)
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasPgCode(err, pgForeignKeyViolationCode)
}

// IsSerializationFailure reports whether the error is a transient concurrency failure
// after which the whole transaction may be retried.
func IsSerializationFailure(err error) bool {
	return hasPgCode(err, pgSerializationFailureCode) || hasPgCode(err, pgDeadlockDetectedCode)
}

// IsNotFound checks if the error indicates that no rows were found.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ConstraintName returns the name of the violated constraint, or an empty string
// if err is not a PostgreSQL error.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// GetPgErrorDetails extracts detailed information from a PostgreSQL error.
func GetPgErrorDetails(err error, query fmt.Stringer) errx.D {
	details := make(errx.D)
	queryStr := getSafeQueryString(query)
	if queryStr != "" {
		details["query"] = strings.ReplaceAll(queryStr, `"`, ``)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return details
	}

	details["pg.code"] = pgErr.Code
	details["pg.message"] = pgErr.Message
	if pgErr.Detail != "" {
		details["pg.detail"] = pgErr.Detail
	}
	if pgErr.TableName != "" {
		details["pg.table"] = pgErr.TableName
	}
	if pgErr.ConstraintName != "" {
		details["pg.constraint"] = pgErr.ConstraintName
	}

	return details
}

// getSafeQueryString converts a query to a string, returning "" for nil queries or
// when String() panics (bun queries can panic on incomplete models).
func getSafeQueryString(query fmt.Stringer) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()

	if query == nil {
		return ""
	}

	return query.String()
}
