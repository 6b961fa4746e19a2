package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// ErrDuplicate surfaces a uniqueness-constraint violation (username/email).
var ErrDuplicate = errors.New("duplicate record")

const pgUniqueViolation = "23505"

// mapStoreError normalizes driver errors: unique violations become
// ErrDuplicate and context deadlines become a retryable store timeout.
// pgx.ErrNoRows passes through untouched for callers to classify.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewStoreTimeout(err)
	}
	return err
}
