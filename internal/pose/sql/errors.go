package posesql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

// handlePgError maps a unique violation onto ErrDuplicateName and marks
// every other driver error as a storage failure.
func handlePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return serviceerr.ErrDuplicateName
	}

	return errors.Join(serviceerr.ErrStorage, err)
}
