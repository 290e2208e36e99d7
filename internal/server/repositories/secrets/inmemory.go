package secrets

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// InMemoryRepository is a map-backed implementation used in tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	rows   map[int64]*models.ClaimSecret
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[int64]*models.ClaimSecret)}
}

func (r *InMemoryRepository) Create(_ context.Context, secret *models.ClaimSecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	secret.ID = r.lastID
	secret.CreatedAt = time.Now()
	c := *secret
	r.rows[secret.ID] = &c
	return nil
}

func (r *InMemoryRepository) LatestUnconsumed(_ context.Context, claimID int64, kind string) (*models.ClaimSecret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *models.ClaimSecret
	now := time.Now()
	for _, s := range r.rows {
		if s.ClaimID != claimID || s.Kind != kind || s.ConsumedAt != nil {
			continue
		}
		if s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || s.ID > latest.ID {
			latest = s
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	c := *latest
	return &c, nil
}

func (r *InMemoryRepository) Consume(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.ConsumedAt != nil {
		return common.ErrorNotFound
	}
	now := time.Now()
	s.ConsumedAt = &now
	return nil
}

func (r *InMemoryRepository) Supersede(_ context.Context, claimID int64, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, s := range r.rows {
		if s.ClaimID == claimID && s.Kind == kind && s.ConsumedAt == nil {
			s.ConsumedAt = &now
		}
	}
	return nil
}
