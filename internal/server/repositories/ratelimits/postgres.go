package ratelimits

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
)

// PostgresRepository implements the counter store over dbx.DBTX. A single
// upsert either starts a fresh window, resets an elapsed one, or increments
// the current counter, so concurrent bumps for the same key serialize on the
// row.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Bump increments the counter for key and returns whether the resulting count
// is within max for the window.
func (r *PostgresRepository) Bump(ctx context.Context, key string, window time.Duration, max int) (bool, error) {
	query := `
		INSERT INTO claim_rate_limits (claimant_key, window_start, count)
		VALUES ($1, now(), 1)
		ON CONFLICT (claimant_key) DO UPDATE SET
			count = CASE
				WHEN claim_rate_limits.window_start < now() - $2 * interval '1 second' THEN 1
				ELSE claim_rate_limits.count + 1
			END,
			window_start = CASE
				WHEN claim_rate_limits.window_start < now() - $2 * interval '1 second' THEN now()
				ELSE claim_rate_limits.window_start
			END
		RETURNING count
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, key, window.Seconds()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count <= max, nil
}
