package evidence

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements evidence storage over a dbx.DBTX (*sql.DB
// or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateBatch inserts one evidence row per URL for the claim.
func (r *PostgresRepository) CreateBatch(ctx context.Context, claimID int64, urls []string, kind string) error {
	if kind == "" {
		kind = "photo"
	}
	for _, url := range urls {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO claim_evidence (claim_id, url, kind) VALUES ($1, $2, $3)`,
			claimID, url, kind); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// ListByClaim returns the evidence of a claim in insertion order.
func (r *PostgresRepository) ListByClaim(ctx context.Context, claimID int64) ([]models.ClaimEvidence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, claim_id, url, kind, created_at FROM claim_evidence WHERE claim_id = $1 ORDER BY id`,
		claimID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ClaimEvidence
	for rows.Next() {
		var ev models.ClaimEvidence
		if err := rows.Scan(&ev.ID, &ev.ClaimID, &ev.URL, &ev.Kind, &ev.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
