package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateIdentity means a principal with that email already
	// exists. Raised by the storage-level unique constraint, never by a
	// read-then-write check.
	ErrDuplicateIdentity = errors.New("email already registered")
	// ErrRoleNotFound means a grant referenced a role that was never
	// created. Role creation is an explicit administrative act.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUnavailable means the backing store could not complete the
	// operation. Read paths propagate it as retryable; buzz writes are
	// decoupled from the triggering operation at the call site.
	ErrUnavailable = errors.New("store unavailable")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
