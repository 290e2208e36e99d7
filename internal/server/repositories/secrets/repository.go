// Package secrets provides repositories for pending claim secrets: hashed
// handover tokens and challenge codes. Secrets are superseded or redeemed
// by marking them consumed, never deleted.
package secrets

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository is the storage contract for claim secrets.
type Repository interface {
	Create(ctx context.Context, secret *models.ClaimSecret) error
	// LatestUnconsumed returns the most recently issued unconsumed secret
	// of the given kind for the claim, or common.ErrorNotFound.
	LatestUnconsumed(ctx context.Context, claimID int64, kind string) (*models.ClaimSecret, error)
	// Consume stamps a single secret consumed.
	Consume(ctx context.Context, id int64) error
	// Supersede stamps every unconsumed secret of the given kind for the
	// claim consumed. Called before issuing a replacement so only the
	// latest secret redeems.
	Supersede(ctx context.Context, claimID int64, kind string) error
}
