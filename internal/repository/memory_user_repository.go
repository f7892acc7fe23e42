package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"authservice/internal/errors"
	"authservice/internal/model"
)

// memoryUserRepository keeps users in insertion order. Ids come from a
// counter that only moves forward, so deleted ids are never handed out again.
type memoryUserRepository struct {
	mu     sync.RWMutex
	users  []*model.User
	nextID uint
	now    func() time.Time
}

// NewMemoryUserRepository builds a process-local repository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{nextID: 1, now: time.Now}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByEmail(user.Email) >= 0 {
		return errors.ErrEmailTaken
	}

	now := r.now()
	stored := user.Clone()
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Role == "" {
		stored.Role = model.RoleUser
	}
	r.nextID++
	r.users = append(r.users, stored)

	*user = *stored.Clone()
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, errors.ErrUserNotFound
	}
	return r.users[i].Clone(), nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByEmail(email)
	if i < 0 {
		return nil, errors.ErrUserNotFound
	}
	return r.users[i].Clone(), nil
}

func (r *memoryUserRepository) List(ctx context.Context, q ListQuery) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := strings.ToLower(q.Filter)
	matched := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		if filter != "" && !strings.Contains(strings.ToLower(u.Name), filter) {
			continue
		}
		matched = append(matched, *u.Clone())
	}

	start := min(max(q.Offset, 0), len(matched))
	end := len(matched)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(matched))
	}
	return matched[start:end], nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(user.ID)
	if i < 0 {
		return errors.ErrUserNotFound
	}

	current := r.users[i]
	updated := user.Clone()
	// Identity fields are owned by the store.
	updated.Email = current.Email
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = r.now()
	r.users[i] = updated

	*user = *updated.Clone()
	return nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return errors.ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

func (r *memoryUserRepository) indexByID(id uint) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryUserRepository) indexByEmail(email string) int {
	for i, u := range r.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}
