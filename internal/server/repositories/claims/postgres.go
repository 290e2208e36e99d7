package claims

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements claim storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const claimColumns = `id, report_id, COALESCE(claimant_name, ''),
		COALESCE(item_description, ''), claim_status, claimant_user_id, trust_score, created_at`

// Create inserts a claim and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	query := `
		INSERT INTO claims (report_id, claimant_name, item_description, claim_status, claimant_user_id, trust_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	if claim.ClaimStatus == "" {
		claim.ClaimStatus = models.ClaimStatusPending
	}
	err := r.db.QueryRowContext(ctx, query,
		claim.ReportID, claim.ClaimantName, claim.ItemDescription, claim.ClaimStatus,
		claim.ClaimantUserID, claim.TrustScore).
		Scan(&claim.ID, &claim.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return claim, nil
}

// GetByID returns a claim by id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	c := &models.Claim{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ReportID, &c.ClaimantName, &c.ItemDescription,
		&c.ClaimStatus, &c.ClaimantUserID, &c.TrustScore, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// UpdateStatus sets the status of a claim.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE claims SET claim_status = $1 WHERE id = $2`, status, id)
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

func (r *PostgresRepository) queryClaims(ctx context.Context, query string, args ...any) ([]*models.Claim, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Claim
	for rows.Next() {
		c := &models.Claim{}
		if err := rows.Scan(&c.ID, &c.ReportID, &c.ClaimantName, &c.ItemDescription,
			&c.ClaimStatus, &c.ClaimantUserID, &c.TrustScore, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByReport returns all claims filed against a report, newest first.
func (r *PostgresRepository) ListByReport(ctx context.Context, reportID int64) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE report_id = $1 ORDER BY created_at DESC`
	return r.queryClaims(ctx, query, reportID)
}

// ListByClaimant returns all claims filed by an account, newest first.
func (r *PostgresRepository) ListByClaimant(ctx context.Context, userID int64) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE claimant_user_id = $1 ORDER BY created_at DESC`
	return r.queryClaims(ctx, query, userID)
}

// ListAll returns up to limit claims, newest first, optionally filtered by
// status. A limit of 0 means no limit.
func (r *PostgresRepository) ListAll(ctx context.Context, status string, limit int) ([]*models.Claim, error) {
	if status != "" {
		query := `SELECT ` + claimColumns + ` FROM claims WHERE claim_status = $1 ORDER BY created_at DESC LIMIT NULLIF($2, 0)`
		return r.queryClaims(ctx, query, status, limit)
	}
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY created_at DESC LIMIT NULLIF($1, 0)`
	return r.queryClaims(ctx, query, limit)
}

// HasCommitted reports whether the report already has a claim in a
// committed state.
func (r *PostgresRepository) HasCommitted(ctx context.Context, reportID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE report_id = $1 AND claim_status = ANY($2)
		)
	`
	var exists bool
	statuses := "{" + models.ClaimStatusChallengeVerified + "," + models.ClaimStatusAccepted + "," + models.ClaimStatusReleased + "}"
	if err := r.db.QueryRowContext(ctx, query, reportID, statuses).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
