// Package repo contains all database access logic for the bed tags service.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openbeds/bedtags/internal/domain"
	"github.com/openbeds/bedtags/internal/validator"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQLSTATE codes mapped by mapPgError.
const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	stringDataRightTruncation = "22001"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// mapPgError translates driver errors into domain sentinels:
// unique violations become ErrConflict, foreign key violations ErrNotFound,
// and a missing row ErrNotFound. A value too long for its column becomes
// ErrValidation carrying the same field error the validator records; name
// is the only bounded text column. Anything else is returned unchanged.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrConflict
		case foreignKeyViolation:
			return domain.ErrNotFound
		case stringDataRightTruncation:
			errs := domain.NewErrors("bedTag")
			errs.RejectValue(validator.FieldName, domain.CodeExceededMaxLength,
				fmt.Sprintf("%s must not exceed %d characters", validator.FieldName, validator.NameColumnWidth))
			return fmt.Errorf("%w: %w", domain.ErrValidation, errs)
		}
	}
	return err
}

// likePrefix escapes LIKE metacharacters in s so it matches literally as a prefix.
func likePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s) + "%"
}
