package database

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Target describes where a parsed config points, as user@host:port/db.
// It is built from parsed fields only, so passwords never appear in it
// whatever form the DSN was written in.
func Target(cfg *pgconn.Config) string {
	return fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
}
