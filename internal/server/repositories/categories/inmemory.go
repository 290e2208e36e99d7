package categories

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// InMemoryRepository is a map-backed implementation used in tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	rows   map[string]*models.Category
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*models.Category)}
}

func (r *InMemoryRepository) Create(_ context.Context, name string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.rows[name]; ok {
		cp := *c
		return &cp, nil
	}
	r.lastID++
	c := &models.Category{ID: r.lastID, Name: name}
	r.rows[name] = c
	cp := *c
	return &cp, nil
}

func (r *InMemoryRepository) FindByName(_ context.Context, name string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*models.Category, 0, len(r.rows))
	for _, c := range r.rows {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
