// Package refreshtokens provides storage for claimant refresh tokens used in
// the session refresh flow.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository describes refresh token persistence.
type Repository interface {
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
