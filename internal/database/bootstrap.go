package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenlake-league/ledgerbot/internal/database/schema"
)

// EnsureSchema applies the baseline schema. All statements use
// IF NOT EXISTS, so running it against a migrated database is a no-op.
// Deployments that manage migrations with goose can skip this.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema.SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
