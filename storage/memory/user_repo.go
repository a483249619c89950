package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u *models.UserProfile) (*models.UserProfile, error) {
	r.s.mu.Lock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			r.s.mu.Unlock()
			return nil, fmt.Errorf("user %s: %w", u.Email, models.ErrDuplicateEmail)
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionUsers)
	out := c
	return &out, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

func (r *userRepo) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.UserProfile, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
