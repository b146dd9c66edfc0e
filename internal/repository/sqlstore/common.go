package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"course-authoring/internal/errors"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// HandleDatabaseError converts driver errors to structured app errors.
// Unique-constraint violations and serialization failures become retryable
// conflicts, expired contexts become timeouts.
func HandleDatabaseError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, err.Error())
	}
	if reason, ok := constraintViolation(err); ok {
		return errors.NewConflictError(operation, reason, err).MarkRetryable()
	}
	return errors.NewDatabaseError(operation, err)
}

func constraintViolation(err error) (string, bool) {
	var liteErr *sqlite.Error
	if stderrors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return "unique constraint violated", true
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return "database is busy", true
		}
		return "", false
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName != "" {
				return "unique constraint " + pgErr.ConstraintName + " violated", true
			}
			return "unique constraint violated", true
		case pgSerializationFailure:
			return "concurrent update", true
		}
	}
	return "", false
}

// HandleNoRowsError turns sql.ErrNoRows into a NotFound for entityType
func HandleNoRowsError(err error, entityType string, id string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(entityType, id)
	}
	return err
}

// ValidateRowsAffected checks if a database operation affected the expected number of rows
func ValidateRowsAffected(result sql.Result, entityType string, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(entityType, id)
	}
	return nil
}

// InsertReturningID executes an INSERT ... RETURNING id statement
func InsertReturningID(ctx context.Context, q sqlx.QueryerContext, operation string, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, HandleDatabaseError(operation, err)
	}
	return id, nil
}

// ExecuteWithRowsAffected executes a query and validates that rows were affected
func ExecuteWithRowsAffected(ctx context.Context, e sqlx.ExecerContext, query string, entityType string, id string, args ...interface{}) error {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return HandleDatabaseError("update "+entityType, err)
	}

	return ValidateRowsAffected(result, entityType, id)
}

// QuerySingle scans one row into T. A missing row is a NotFound.
func QuerySingle[T any](ctx context.Context, q sqlx.QueryerContext, query string, entityType string, id string, args ...interface{}) (*T, error) {
	var result T
	if err := sqlx.GetContext(ctx, q, &result, query, args...); err != nil {
		return nil, HandleDatabaseError("scan "+entityType, HandleNoRowsError(err, entityType, id))
	}
	return &result, nil
}

// QueryMultiple executes a query that returns multiple rows and scans them
func QueryMultiple[T any](ctx context.Context, q sqlx.QueryerContext, query string, entityType string, args ...interface{}) ([]*T, error) {
	results := []*T{}
	if err := sqlx.SelectContext(ctx, q, &results, query, args...); err != nil {
		return nil, HandleDatabaseError("query "+entityType, err)
	}
	return results, nil
}

// QueryScalar scans a single-column, single-row result such as COUNT or EXISTS
func QueryScalar[T any](ctx context.Context, q sqlx.QueryerContext, query string, operation string, args ...interface{}) (T, error) {
	var value T
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&value); err != nil {
		return value, HandleDatabaseError(operation, err)
	}
	return value, nil
}
