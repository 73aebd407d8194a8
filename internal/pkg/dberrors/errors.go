package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation and foreign_key_violation per the PostgreSQL error code
// catalogue.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique
// violation for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation checks if the error is any PostgreSQL foreign-key
// violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}
