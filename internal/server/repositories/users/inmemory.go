package users

import (
	"context"
	"strings"
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
	items  map[int64]*models.User
}

// NewInMemoryRepository constructs an empty in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: make(map[int64]*models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.items {
		if u.DeletedAt == 0 && (strings.EqualFold(u.Email, user.Email) || u.UserName == user.UserName) {
			return nil, common.ErrorAlreadyExists
		}
	}

	if user.UserType == "" {
		user.UserType = models.UserTypeLocal
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	clone := *user
	r.items[user.ID] = &clone
	return user, nil
}

// Seed stores a user as-is, timestamps included. Test setup only.
func (r *InMemoryRepository) Seed(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	clone := *user
	r.items[user.ID] = &clone
	return user
}

func (r *InMemoryRepository) getActive(match func(*models.User) bool) (*models.User, error) {
	for _, u := range r.items {
		if u.DeletedAt == 0 && match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getActive(func(u *models.User) bool { return u.ID == id })
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getActive(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *InMemoryRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getActive(func(u *models.User) bool { return u.UserName == userName })
}

func (r *InMemoryRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[user.ID]
	if !ok || stored.DeletedAt != 0 {
		return common.ErrorNotFound
	}
	stored.FullName = user.FullName
	stored.PhoneNumber = user.PhoneNumber
	stored.ProfileImageURL = user.ProfileImageURL
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*models.User
	for _, u := range r.items {
		if u.DeletedAt == 0 {
			clone := *u
			all = append(all, &clone)
		}
	}
	// Newest first, following the postgres ordering.
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].CreatedAt.After(all[i].CreatedAt) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *InMemoryRepository) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok || stored.DeletedAt != 0 {
		return common.ErrorNotFound
	}
	stored.DeletedAt = time.Now().Unix()
	return nil
}
