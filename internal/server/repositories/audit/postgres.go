package audit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements audit storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const claimAuditColumns = `id, actor_user_id, claim_id, action, COALESCE(details, ''), created_at`

// AppendClaim inserts one claim audit entry.
func (r *PostgresRepository) AppendClaim(ctx context.Context, entry *models.ClaimAuditEntry) error {
	query := `
		INSERT INTO claim_audit (actor_user_id, claim_id, action, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.ActorUserID, entry.ClaimID, entry.Action, entry.Details).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.ClaimAuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ClaimAuditEntry
	for rows.Next() {
		e := &models.ClaimAuditEntry{}
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.ClaimID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByClaim returns up to limit entries for a claim, newest first.
func (r *PostgresRepository) ListByClaim(ctx context.Context, claimID int64, limit int) ([]*models.ClaimAuditEntry, error) {
	query := `
		SELECT ` + claimAuditColumns + ` FROM claim_audit
		WHERE claim_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0)
	`
	return r.queryEntries(ctx, query, claimID, limit)
}

// Recent returns up to limit entries across all claims created after since,
// newest first.
func (r *PostgresRepository) Recent(ctx context.Context, since time.Time, limit int) ([]*models.ClaimAuditEntry, error) {
	query := `
		SELECT ` + claimAuditColumns + ` FROM claim_audit
		WHERE created_at > $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.queryEntries(ctx, query, since, limit)
}

// ListByClaimsSince returns entries for the given claims created after
// since, newest first.
func (r *PostgresRepository) ListByClaimsSince(ctx context.Context, claimIDs []int64, since time.Time) ([]*models.ClaimAuditEntry, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(claimIDs))
	args := make([]any, 0, len(claimIDs)+1)
	for i, id := range claimIDs {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args = append(args, id)
	}
	args = append(args, since)

	query := `
		SELECT ` + claimAuditColumns + ` FROM claim_audit
		WHERE claim_id IN (` + strings.Join(placeholders, ", ") + `) AND created_at > $` + strconv.Itoa(len(args)) + `
		ORDER BY created_at DESC, id DESC
	`
	return r.queryEntries(ctx, query, args...)
}

// AppendUser inserts one user audit entry.
func (r *PostgresRepository) AppendUser(ctx context.Context, entry *models.UserAuditEntry) error {
	query := `
		INSERT INTO user_audit (actor_user_id, target_user_id, action, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.ActorUserID, entry.TargetUserID, entry.Action, entry.Details).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
