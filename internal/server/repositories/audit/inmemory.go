package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// InMemoryRepository is a slice-backed Repository used in tests and by the
// in-memory repository manager. Safe for concurrent use.
type InMemoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	claimItems []*models.ClaimAuditEntry
	userItems  []*models.UserAuditEntry
}

// NewInMemoryRepository constructs an empty in-memory audit repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) AppendClaim(ctx context.Context, entry *models.ClaimAuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	entry.CreatedAt = time.Now()

	clone := *entry
	r.claimItems = append(r.claimItems, &clone)
	return nil
}

func (r *InMemoryRepository) collect(match func(*models.ClaimAuditEntry) bool) []*models.ClaimAuditEntry {
	var result []*models.ClaimAuditEntry
	for _, e := range r.claimItems {
		if match(e) {
			clone := *e
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

func (r *InMemoryRepository) ListByClaim(ctx context.Context, claimID int64, limit int) ([]*models.ClaimAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(e *models.ClaimAuditEntry) bool { return e.ClaimID == claimID })
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryRepository) Recent(ctx context.Context, since time.Time, limit int) ([]*models.ClaimAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(e *models.ClaimAuditEntry) bool { return e.CreatedAt.After(since) })
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryRepository) ListByClaimsSince(ctx context.Context, claimIDs []int64, since time.Time) ([]*models.ClaimAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{}, len(claimIDs))
	for _, id := range claimIDs {
		ids[id] = struct{}{}
	}
	return r.collect(func(e *models.ClaimAuditEntry) bool {
		_, ok := ids[e.ClaimID]
		return ok && e.CreatedAt.After(since)
	}), nil
}

// UserEntries returns the user audit rows appended so far. Test inspection
// only.
func (r *InMemoryRepository) UserEntries() []*models.UserAuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.UserAuditEntry, 0, len(r.userItems))
	for _, e := range r.userItems {
		clone := *e
		result = append(result, &clone)
	}
	return result
}

func (r *InMemoryRepository) AppendUser(ctx context.Context, entry *models.UserAuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	entry.CreatedAt = time.Now()

	clone := *entry
	r.userItems = append(r.userItems, &clone)
	return nil
}
