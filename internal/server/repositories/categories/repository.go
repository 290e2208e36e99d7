// Package categories provides storage for the report category lookup table.
package categories

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository describes category persistence. Categories are created lazily
// the first time a report names one.
type Repository interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}
