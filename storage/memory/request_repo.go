package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type requestRepo struct {
	s *Store
}

func cloneRequest(r *models.DeliveryRequest) *models.DeliveryRequest {
	c := *r
	if r.PickupLocation != nil {
		loc := *r.PickupLocation
		c.PickupLocation = &loc
	}
	return &c
}

func (r *requestRepo) Create(ctx context.Context, req *models.DeliveryRequest) (*models.DeliveryRequest, error) {
	r.s.mu.Lock()
	if _, ok := r.s.requests[req.ID]; ok {
		r.s.mu.Unlock()
		return nil, fmt.Errorf("request %s already exists", req.ID)
	}
	r.s.requests[req.ID] = cloneRequest(req)
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRequests)
	return cloneRequest(req), nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*models.DeliveryRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, models.ErrNotFound)
	}
	return cloneRequest(req), nil
}

func (r *requestRepo) GetAll(ctx context.Context) ([]*models.DeliveryRequest, error) {
	return r.filter(func(*models.DeliveryRequest) bool { return true })
}

func (r *requestRepo) GetByStatus(ctx context.Context, status models.RequestStatus) ([]*models.DeliveryRequest, error) {
	return r.filter(func(req *models.DeliveryRequest) bool { return req.Status == status })
}

func (r *requestRepo) GetByVolunteer(ctx context.Context, volunteerID string) ([]*models.DeliveryRequest, error) {
	return r.filter(func(req *models.DeliveryRequest) bool { return req.VolunteerID == volunteerID })
}

func (r *requestRepo) GetByDonor(ctx context.Context, donorName string) ([]*models.DeliveryRequest, error) {
	return r.filter(func(req *models.DeliveryRequest) bool { return req.DonorName == donorName })
}

func (r *requestRepo) filter(keep func(*models.DeliveryRequest) bool) ([]*models.DeliveryRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.DeliveryRequest
	for _, req := range r.s.requests {
		if keep(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *requestRepo) Accept(ctx context.Context, id, volunteerID, volunteerName string, at time.Time) error {
	r.s.mu.Lock()
	req, ok := r.s.requests[id]
	if !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("request %s: %w", id, models.ErrNotFound)
	}
	// Re-check under the lock: a concurrent accept may already have won.
	if req.Status != models.StatusPending {
		r.s.mu.Unlock()
		return fmt.Errorf("accept request %s in status %s: %w", id, req.Status, models.ErrInvalidState)
	}
	req.Status = models.StatusAccepted
	req.VolunteerID = volunteerID
	req.VolunteerName = volunteerName
	req.UpdatedAt = at
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRequests)
	return nil
}

func (r *requestRepo) AdvanceStatus(ctx context.Context, id string, from, to models.RequestStatus, patch models.RequestPatch) error {
	r.s.mu.Lock()
	req, ok := r.s.requests[id]
	if !ok {
		r.s.mu.Unlock()
		return fmt.Errorf("request %s: %w", id, models.ErrNotFound)
	}
	if req.Status != from {
		r.s.mu.Unlock()
		return fmt.Errorf("advance request %s from %s, have %s: %w", id, from, req.Status, models.ErrInvalidState)
	}
	req.Status = to
	if patch.VolunteerID != nil {
		req.VolunteerID = *patch.VolunteerID
	}
	if patch.VolunteerName != nil {
		req.VolunteerName = *patch.VolunteerName
	}
	if patch.ProofURL != nil {
		req.ProofURL = *patch.ProofURL
	}
	if patch.ProofType != nil {
		req.ProofType = *patch.ProofType
	}
	req.UpdatedAt = patch.UpdatedAt
	r.s.mu.Unlock()

	r.s.emit(storage.CollectionRequests)
	return nil
}

func (r *requestRepo) CountDelivered(ctx context.Context, volunteerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, req := range r.s.requests {
		if req.VolunteerID == volunteerID &&
			(req.Status == models.StatusDelivered || req.Status == models.StatusPaid) {
			n++
		}
	}
	return n, nil
}
