package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column from a unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - context deadline/cancel → Timeout/Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict (with the offending column in Field)
//   - check / NOT NULL violations → Validation
//   - connection failures → Unavailable
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "database operation timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "database operation canceled", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return &AppError{Code: ErrCodeUnavailable, Message: "database unavailable", Cause: err}
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "value already exists",
			Field:   uniqueViolationField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "invalid value",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow, pgerrcode.TooManyConnections:
		return &AppError{Code: ErrCodeUnavailable, Message: "database unavailable", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "database error", Cause: pgErr}
	}
}

// uniqueViolationField resolves the violated column from, in order of reliability,
// the column metadata, the detail message, and the constraint name.
func uniqueViolationField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return inferFieldFromConstraint(pgErr.TableName, pgErr.ConstraintName)
}

// inferFieldFromConstraint strips the table prefix and the "_key"/"_unique"/"_idx" suffix
// from a constraint name, e.g. "account_stats_handle_key" → "handle".
func inferFieldFromConstraint(table, constraint string) string {
	name := strings.ToLower(strings.TrimSpace(constraint))
	if name == "" {
		return ""
	}
	if table != "" {
		name = strings.TrimPrefix(name, strings.ToLower(table)+"_")
	}
	for _, suffix := range []string{"_key", "_unique", "_idx"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			name = trimmed
			break
		}
	}
	if name == "" || name == strings.ToLower(constraint) {
		return ""
	}
	return name
}
