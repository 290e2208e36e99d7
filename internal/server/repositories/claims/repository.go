// Package claims provides repositories for claim persistence.
package claims

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository is the storage contract for claims. Claims are never deleted;
// only status mutations are supported, and only the claim workflow service
// calls them.
type Repository interface {
	Create(ctx context.Context, claim *models.Claim) (*models.Claim, error)
	GetByID(ctx context.Context, id int64) (*models.Claim, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListByReport(ctx context.Context, reportID int64) ([]*models.Claim, error)
	ListByClaimant(ctx context.Context, userID int64) ([]*models.Claim, error)
	ListAll(ctx context.Context, status string, limit int) ([]*models.Claim, error)
	// HasCommitted reports whether the report already has a claim in a
	// committed state (challenge_verified, accepted or released).
	HasCommitted(ctx context.Context, reportID int64) (bool, error)
}
