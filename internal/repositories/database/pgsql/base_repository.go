package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// BaseRepository holds the pool shared by the SQL adapters.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// inTx runs fn inside a database transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// translate maps driver errors onto the application error taxonomy.
func translate(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "database error on "+what, err)
}
