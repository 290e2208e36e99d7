package claims

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and by the
// in-memory repository manager. Safe for concurrent use.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Claim
}

// NewInMemoryRepository constructs an empty in-memory claim repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: make(map[int64]*models.Claim)}
}

func (r *InMemoryRepository) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if claim.ClaimStatus == "" {
		claim.ClaimStatus = models.ClaimStatusPending
	}
	claim.ID = r.nextID
	r.nextID++
	claim.CreatedAt = time.Now()

	clone := *claim
	r.items[claim.ID] = &clone
	return claim, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.ClaimStatus = status
	return nil
}

func (r *InMemoryRepository) list(match func(*models.Claim) bool) []*models.Claim {
	var result []*models.Claim
	for _, c := range r.items {
		if match(c) {
			clone := *c
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *InMemoryRepository) ListByReport(ctx context.Context, reportID int64) ([]*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(c *models.Claim) bool { return c.ReportID == reportID }), nil
}

func (r *InMemoryRepository) ListByClaimant(ctx context.Context, userID int64) ([]*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(c *models.Claim) bool {
		return c.ClaimantUserID != nil && *c.ClaimantUserID == userID
	}), nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context, status string, limit int) ([]*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.list(func(c *models.Claim) bool {
		return status == "" || c.ClaimStatus == status
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryRepository) HasCommitted(ctx context.Context, reportID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.items {
		if c.ReportID == reportID && c.IsCommitted() {
			return true, nil
		}
	}
	return false, nil
}
