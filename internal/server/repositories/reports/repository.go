// Package reports provides repositories for lost/found report persistence.
package reports

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Filter narrows List results; zero values mean no filtering.
type Filter struct {
	ReportType string
	ItemStatus string
	CategoryID int64
	Limit      int
}

// Repository is the storage contract for reports and their images. Report
// status is mutated only by report submission and by the claim workflow.
type Repository interface {
	Create(ctx context.Context, report *models.Report) (*models.Report, error)
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	// GetForUpdate loads a report while serializing concurrent claim
	// creation against it (row lock on postgres).
	GetForUpdate(ctx context.Context, id int64) (*models.Report, error)
	List(ctx context.Context, f Filter) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	AddImages(ctx context.Context, reportID int64, urls []string) error
	ListImages(ctx context.Context, reportID int64) ([]models.ReportImage, error)
}
