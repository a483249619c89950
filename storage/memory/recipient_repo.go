package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type recipientRepo struct {
	s *Store
}

func cloneRecipient(rec *models.Recipient) *models.Recipient {
	c := *rec
	c.Needs = append([]string(nil), rec.Needs...)
	return &c
}

func (r *recipientRepo) Create(ctx context.Context, rec *models.Recipient) (*models.Recipient, error) {
	r.s.mu.Lock()
	if _, ok := r.s.recipients[rec.ID]; ok {
		r.s.mu.Unlock()
		return nil, fmt.Errorf("recipient %s already exists", rec.ID)
	}
	r.s.recipients[rec.ID] = cloneRecipient(rec)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRecipients)
	return cloneRecipient(rec), nil
}

func (r *recipientRepo) GetByID(ctx context.Context, id string) (*models.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.recipients[id]
	if !ok {
		return nil, fmt.Errorf("recipient %s: %w", id, models.ErrNotFound)
	}
	return cloneRecipient(rec), nil
}

func (r *recipientRepo) GetAll(ctx context.Context) ([]*models.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Recipient, 0, len(r.s.recipients))
	for _, rec := range r.s.recipients {
		out = append(out, cloneRecipient(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	return out, nil
}

func (r *recipientRepo) Update(ctx context.Context, rec *models.Recipient) (*models.Recipient, error) {
	r.s.mu.Lock()
	if _, ok := r.s.recipients[rec.ID]; !ok {
		r.s.mu.Unlock()
		return nil, fmt.Errorf("recipient %s: %w", rec.ID, models.ErrNotFound)
	}
	r.s.recipients[rec.ID] = cloneRecipient(rec)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRecipients)
	return cloneRecipient(rec), nil
}

func (r *recipientRepo) UpdateLastSeen(ctx context.Context, id string, seen time.Time, reportedBy string) error {
	r.s.mu.Lock()
	rec, ok := r.s.recipients[id]
	if !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("recipient %s: %w", id, models.ErrNotFound)
	}
	rec.LastSeen = seen
	if reportedBy != "" {
		rec.ReportedBy = reportedBy
	}
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRecipients)
	return nil
}

func (r *recipientRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	if _, ok := r.s.recipients[id]; !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("recipient %s: %w", id, models.ErrNotFound)
	}
	delete(r.s.recipients, id)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRecipients)
	return nil
}
