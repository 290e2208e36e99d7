package evidence

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and by the
// in-memory repository manager. Safe for concurrent use.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64][]models.ClaimEvidence
}

// NewInMemoryRepository constructs an empty in-memory evidence repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: make(map[int64][]models.ClaimEvidence)}
}

func (r *InMemoryRepository) CreateBatch(ctx context.Context, claimID int64, urls []string, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if kind == "" {
		kind = "photo"
	}
	for _, url := range urls {
		r.items[claimID] = append(r.items[claimID], models.ClaimEvidence{
			ID:        r.nextID,
			ClaimID:   claimID,
			URL:       url,
			Kind:      kind,
			CreatedAt: time.Now(),
		})
		r.nextID++
	}
	return nil
}

func (r *InMemoryRepository) ListByClaim(ctx context.Context, claimID int64) ([]models.ClaimEvidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ClaimEvidence(nil), r.items[claimID]...), nil
}
