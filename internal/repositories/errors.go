package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrInvalid indicates the write was rejected by a check constraint.
	ErrInvalid = errors.New("record invalid")
	// ErrInconsistent indicates a stored row references data that no longer exists.
	ErrInconsistent = errors.New("record inconsistent")
)

// translateWriteError maps constraint violations onto the package sentinels and
// wraps everything else with the failed operation.
func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrNotFound
		case "23514", "22P02":
			return ErrInvalid
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
