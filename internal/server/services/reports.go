package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/reports"
)

// CreateReportInput carries everything needed to file a report.
type CreateReportInput struct {
	ReportType   string
	ItemName     string
	Location     string
	ReportDate   time.Time
	Category     string
	Description  string
	ContactInfo  string
	ContactEmail string
	ImageURLs    []string
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	ReportType string
	ItemStatus string
	Category   string
	Limit      int
}

// ReportService implements lost/found report submission, browsing and
// administrative removal.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ReportService {
	return &ReportService{db: db, repomanager: m, config: cfg}
}

// initialStatus derives the initial item status from the report type.
func initialStatus(reportType string) string {
	if reportType == models.ReportTypeLost {
		return models.ItemStatusLost
	}
	return models.ItemStatusFound
}

// Create files a report, lazily creating its category and attaching images,
// all in one transaction.
func (s *ReportService) Create(ctx context.Context, input *CreateReportInput) (*models.Report, error) {

	if input.ReportType != models.ReportTypeLost && input.ReportType != models.ReportTypeFound {
		return nil, common.ErrorInvalidPayload
	}

	var report *models.Report

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var categoryID *int64
		if input.Category != "" {
			category, err := s.findOrCreateCategory(ctx, tx, input.Category)
			if err != nil {
				return err
			}
			categoryID = &category.ID
		}

		reportDate := input.ReportDate
		if reportDate.IsZero() {
			reportDate = time.Now()
		}

		var err error
		report, err = s.repomanager.Reports(tx).Create(ctx, &models.Report{
			ReportType:   input.ReportType,
			ItemName:     input.ItemName,
			Location:     input.Location,
			ReportDate:   reportDate,
			ItemStatus:   initialStatus(input.ReportType),
			CategoryID:   categoryID,
			Description:  input.Description,
			ContactInfo:  input.ContactInfo,
			ContactEmail: input.ContactEmail,
		})
		if err != nil {
			return err
		}

		if len(input.ImageURLs) > 0 {
			if err := s.repomanager.Reports(tx).AddImages(ctx, report.ID, input.ImageURLs); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, common.ErrorInternal
	}
	return report, nil
}

func (s *ReportService) findOrCreateCategory(ctx context.Context, db dbx.DBTX, name string) (*models.Category, error) {
	repo := s.repomanager.Categories(db)
	category, err := repo.FindByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return repo.Create(ctx, name)
}

// Get returns a report with its images attached.
func (s *ReportService) Get(ctx context.Context, id int64) (*models.Report, error) {
	repo := s.repomanager.Reports(s.db)
	report, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	images, err := repo.ListImages(ctx, id)
	if err != nil {
		return nil, common.ErrorInternal
	}
	report.Images = images
	return report, nil
}

// List returns reports matching the filter, newest first.
func (s *ReportService) List(ctx context.Context, f *ReportFilter) ([]*models.Report, error) {
	filter := reports.Filter{
		ReportType: f.ReportType,
		ItemStatus: f.ItemStatus,
		Limit:      f.Limit,
	}
	if f.Category != "" {
		category, err := s.repomanager.Categories(s.db).FindByName(ctx, f.Category)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return []*models.Report{}, nil
			}
			return nil, common.ErrorInternal
		}
		filter.CategoryID = category.ID
	}
	result, err := s.repomanager.Reports(s.db).List(ctx, filter)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Categories returns the known category names.
func (s *ReportService) Categories(ctx context.Context) ([]*models.Category, error) {
	result, err := s.repomanager.Categories(s.db).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Delete removes a report. Admin only; claims filed against it stay in the
// audit trail.
func (s *ReportService) Delete(ctx context.Context, id int64) error {
	err := s.repomanager.Reports(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}
