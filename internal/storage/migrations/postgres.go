package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresExecer is the statement-execution surface the runner needs.
// *postgres.Pool satisfies it through its embedded pgxpool.Pool.
type PostgresExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// RunPostgresMigrations applies all embedded SQL files in lexical order.
// Migrations are expected to be idempotent.
func RunPostgresMigrations(ctx context.Context, db PostgresExecer) error {
	ms, err := loadMigrations(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := db.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	return nil
}
