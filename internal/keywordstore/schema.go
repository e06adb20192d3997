// Package keywordstore provides a PostgreSQL-backed cache for generated
// keyword:definition maps, keyed by a hash of the subjects and count that
// produced them — repeated requests for the same theme skip the completer
// call entirely.
package keywordstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddlKeywordCache = `
CREATE TABLE IF NOT EXISTS keyword_cache (
    cache_key  TEXT         PRIMARY KEY,
    keywords   JSONB        NOT NULL,
    created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);
`

// Migrate creates the keyword_cache table if it does not already exist.
// Idempotent and safe to call on every application start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlKeywordCache); err != nil {
		return fmt.Errorf("keywordstore migrate: %w", err)
	}
	return nil
}
