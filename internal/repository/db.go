package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/Domenick1991/airline-booking/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schema string

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// DB is the subset of pgxpool.Pool used by the repositories.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds statements with $n placeholders only.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// storeErr classifies a write failure for the callers.
func storeErr(op string, err error) error {
	switch pgErrorCode(err) {
	case uniqueViolationCode:
		return fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
	case foreignKeyViolationCode:
		return fmt.Errorf("%s: %w", op, domain.Invalid("referenced record does not exist"))
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

func queryAll[T any](ctx context.Context, db DB, b sq.Sqlizer, scan func(pgx.Row) (T, error)) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return collect(ctx, db, query, args, scan)
}

func collect[T any](ctx context.Context, db DB, query string, args []any, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
