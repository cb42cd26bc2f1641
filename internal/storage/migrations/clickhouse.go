package migrations

import (
	"context"
	"fmt"
)

// ClickhouseExecer is the statement-execution surface the runner needs.
// *clickhouse.Conn satisfies it through its embedded driver.Conn.
type ClickhouseExecer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// RunClickhouseMigrations applies all embedded SQL files in lexical
// order. Migrations are expected to be idempotent.
func RunClickhouseMigrations(ctx context.Context, db ClickhouseExecer) error {
	ms, err := loadMigrations(ClickhouseFS, "clickhouse")
	if err != nil {
		return err
	}
	for _, m := range ms {
		if err := db.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	return nil
}
