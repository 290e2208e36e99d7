package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements secret storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a secret row.
func (r *PostgresRepository) Create(ctx context.Context, secret *models.ClaimSecret) error {
	query := `
		INSERT INTO claim_secrets (claim_id, kind, value, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		secret.ClaimID, secret.Kind, secret.Value, secret.ExpiresAt).
		Scan(&secret.ID, &secret.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// LatestUnconsumed returns the most recently issued unconsumed, unexpired
// secret of the given kind for the claim.
func (r *PostgresRepository) LatestUnconsumed(ctx context.Context, claimID int64, kind string) (*models.ClaimSecret, error) {
	query := `
		SELECT id, claim_id, kind, value, consumed_at, expires_at, created_at
		FROM claim_secrets
		WHERE claim_id = $1 AND kind = $2 AND consumed_at IS NULL
			AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	s := &models.ClaimSecret{}
	err := r.db.QueryRowContext(ctx, query, claimID, kind).Scan(
		&s.ID, &s.ClaimID, &s.Kind, &s.Value, &s.ConsumedAt, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Consume stamps a single secret consumed. Consuming an already-consumed
// secret yields common.ErrorNotFound.
func (r *PostgresRepository) Consume(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE claim_secrets SET consumed_at = now() WHERE id = $1 AND consumed_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Supersede stamps every unconsumed secret of the given kind for the claim
// consumed. A no-op when none exist.
func (r *PostgresRepository) Supersede(ctx context.Context, claimID int64, kind string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE claim_secrets SET consumed_at = now() WHERE claim_id = $1 AND kind = $2 AND consumed_at IS NULL`,
		claimID, kind)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
