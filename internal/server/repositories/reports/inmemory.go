package reports

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and by the
// in-memory repository manager. Safe for concurrent use. GetForUpdate
// degrades to a plain read; the claims repository enforces the one-active-
// claim invariant in memory.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Report
	images map[int64][]models.ReportImage
}

// NewInMemoryRepository constructs an empty in-memory report repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID: 1,
		items:  make(map[int64]*models.Report),
		images: make(map[int64][]models.ReportImage),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report.ID = r.nextID
	r.nextID++
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now
	if report.ReportDate.IsZero() {
		report.ReportDate = now
	}

	clone := *report
	r.items[report.ID] = &clone
	return report, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *rep
	return &clone, nil
}

func (r *InMemoryRepository) GetForUpdate(ctx context.Context, id int64) (*models.Report, error) {
	return r.GetByID(ctx, id)
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Report
	for _, rep := range r.items {
		if f.ReportType != "" && rep.ReportType != f.ReportType {
			continue
		}
		if f.ItemStatus != "" && rep.ItemStatus != f.ItemStatus {
			continue
		}
		if f.CategoryID != 0 && (rep.CategoryID == nil || *rep.CategoryID != f.CategoryID) {
			continue
		}
		clone := *rep
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if f.Limit > 0 && f.Limit < len(result) {
		result = result[:f.Limit]
	}
	return result, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	rep.ItemStatus = status
	rep.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	delete(r.images, id)
	return nil
}

func (r *InMemoryRepository) AddImages(ctx context.Context, reportID int64, urls []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, url := range urls {
		r.images[reportID] = append(r.images[reportID], models.ReportImage{
			ID:        int64(len(r.images[reportID]) + 1),
			ReportID:  reportID,
			URL:       url,
			CreatedAt: time.Now(),
		})
	}
	return nil
}

func (r *InMemoryRepository) ListImages(ctx context.Context, reportID int64) ([]models.ReportImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ReportImage(nil), r.images[reportID]...), nil
}
