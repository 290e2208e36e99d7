// Package audit provides append-only repositories for the claim and user
// audit trails. No update or delete operations exist; audit rows are the
// durable record of every state-changing action.
package audit

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository is the storage contract for audit entries.
type Repository interface {
	AppendClaim(ctx context.Context, entry *models.ClaimAuditEntry) error
	// ListByClaim returns up to limit entries for a claim, newest first.
	ListByClaim(ctx context.Context, claimID int64, limit int) ([]*models.ClaimAuditEntry, error)
	// Recent returns up to limit entries across all claims created after
	// since, newest first. Used by the admin notification feed.
	Recent(ctx context.Context, since time.Time, limit int) ([]*models.ClaimAuditEntry, error)
	// ListByClaimsSince returns entries for any of the given claims created
	// after since, newest first. Used by the claimant notification feed.
	ListByClaimsSince(ctx context.Context, claimIDs []int64, since time.Time) ([]*models.ClaimAuditEntry, error)
	AppendUser(ctx context.Context, entry *models.UserAuditEntry) error
}
