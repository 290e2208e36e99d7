// Package evidence provides repositories for claim evidence persistence.
// Evidence rows are created at claim-submission time and immutable
// thereafter.
package evidence

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository is the storage contract for claim evidence.
type Repository interface {
	CreateBatch(ctx context.Context, claimID int64, urls []string, kind string) error
	ListByClaim(ctx context.Context, claimID int64) ([]models.ClaimEvidence, error)
}
