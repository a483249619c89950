package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type volunteerRepo struct {
	s *Store
}

func cloneVolunteer(v *models.Volunteer) *models.Volunteer {
	c := *v
	if v.Location != nil {
		loc := *v.Location
		c.Location = &loc
	}
	return &c
}

func (r *volunteerRepo) Create(ctx context.Context, v *models.Volunteer) (*models.Volunteer, error) {
	r.s.mu.Lock()
	for _, existing := range r.s.volunteers {
		if strings.EqualFold(existing.Email, v.Email) {
			r.s.mu.Unlock()
			return nil, fmt.Errorf("volunteer %s: %w", v.Email, models.ErrDuplicateEmail)
		}
	}
	r.s.volunteers[v.ID] = cloneVolunteer(v)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionVolunteers)
	return cloneVolunteer(v), nil
}

func (r *volunteerRepo) GetByID(ctx context.Context, id string) (*models.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.volunteers[id]
	if !ok {
		return nil, fmt.Errorf("volunteer %s: %w", id, models.ErrNotFound)
	}
	return cloneVolunteer(v), nil
}

func (r *volunteerRepo) GetByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.volunteers {
		if strings.EqualFold(v.Email, email) {
			return cloneVolunteer(v), nil
		}
	}
	return nil, fmt.Errorf("volunteer %s: %w", email, models.ErrNotFound)
}

func (r *volunteerRepo) GetAll(ctx context.Context) ([]*models.Volunteer, error) {
	return r.filter(func(*models.Volunteer) bool { return true })
}

func (r *volunteerRepo) GetOnline(ctx context.Context) ([]*models.Volunteer, error) {
	return r.filter(func(v *models.Volunteer) bool { return v.IsOnline })
}

func (r *volunteerRepo) filter(keep func(*models.Volunteer) bool) ([]*models.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Volunteer
	for _, v := range r.s.volunteers {
		if keep(v) {
			out = append(out, cloneVolunteer(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *volunteerRepo) SetOnline(ctx context.Context, id string, online bool) error {
	return r.patch(id, func(v *models.Volunteer) { v.IsOnline = online })
}

func (r *volunteerRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.patch(id, func(v *models.Volunteer) { v.Verified = verified })
}

func (r *volunteerRepo) patch(id string, apply func(*models.Volunteer)) error {
	r.s.mu.Lock()
	v, ok := r.s.volunteers[id]
	if !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("volunteer %s: %w", id, models.ErrNotFound)
	}
	apply(v)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionVolunteers)
	return nil
}

func (r *volunteerRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	if _, ok := r.s.volunteers[id]; !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("volunteer %s: %w", id, models.ErrNotFound)
	}
	delete(r.s.volunteers, id)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionVolunteers)
	return nil
}
