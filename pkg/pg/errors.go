package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmptyConnString = errors.New("pg: empty connection string, set PG_CONN_URL")
	ErrInvalidConfig   = errors.New("pg: invalid connection config")
	ErrUnavailable     = errors.New("pg: database unavailable")
	ErrMigration       = errors.New("pg: migration failed")
)

// IsNoRows reports whether err means a query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
