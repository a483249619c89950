package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

// RecipientService is the registry for need locations. It is the only
// mutator of Recipient records.
type RecipientService interface {
	Add(ctx context.Context, rec *models.Recipient) (*models.Recipient, error)
	Update(ctx context.Context, rec *models.Recipient) (*models.Recipient, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Recipient, error)

	// List returns every recipient, stale ones included (admin and
	// volunteer views).
	List(ctx context.Context) ([]*models.Recipient, error)

	// ListActive is the donor-facing catalogue: active recipients
	// reconfirmed within the staleness TTL.
	ListActive(ctx context.Context) ([]*models.Recipient, error)

	// Confirm refreshes a recipient's last-seen timestamp after a
	// volunteer sighting.
	Confirm(ctx context.Context, id, reportedBy string) error
}

type recipientService struct {
	stg storage.IRecipientStorage
	ttl time.Duration
	log logger.ILogger
	now func() time.Time
}

func NewRecipientService(stg storage.IStorage, log logger.ILogger, ttl time.Duration) RecipientService {
	return &recipientService{
		stg: stg.Recipient(),
		ttl: ttl,
		log: log,
		now: time.Now,
	}
}

func validateRecipient(rec *models.Recipient) error {
	if rec.Name == "" {
		return fmt.Errorf("recipient name is required: %w", models.ErrValidation)
	}
	if rec.Count < 1 {
		return fmt.Errorf("recipient count must be at least 1: %w", models.ErrValidation)
	}
	if len(rec.Needs) == 0 {
		return fmt.Errorf("recipient needs must not be empty: %w", models.ErrValidation)
	}
	return nil
}

func (s *recipientService) Add(ctx context.Context, rec *models.Recipient) (*models.Recipient, error) {
	if err := validateRecipient(rec); err != nil {
		return nil, err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = models.RecipientActive
	}
	if rec.LastSeen.IsZero() {
		rec.LastSeen = s.now()
	}

	created, err := s.stg.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.log.Info("recipient added", logger.String("id", created.ID), logger.String("name", created.Name))
	return created, nil
}

func (s *recipientService) Update(ctx context.Context, rec *models.Recipient) (*models.Recipient, error) {
	if err := validateRecipient(rec); err != nil {
		return nil, err
	}
	return s.stg.Update(ctx, rec)
}

func (s *recipientService) Delete(ctx context.Context, id string) error {
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("recipient deleted", logger.String("id", id))
	return nil
}

func (s *recipientService) GetByID(ctx context.Context, id string) (*models.Recipient, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *recipientService) List(ctx context.Context) ([]*models.Recipient, error) {
	return s.stg.GetAll(ctx)
}

func (s *recipientService) ListActive(ctx context.Context) ([]*models.Recipient, error) {
	all, err := s.stg.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var active []*models.Recipient
	for _, rec := range all {
		if rec.Status == models.RecipientActive && !rec.Stale(now, s.ttl) {
			active = append(active, rec)
		}
	}
	return active, nil
}

func (s *recipientService) Confirm(ctx context.Context, id, reportedBy string) error {
	return s.stg.UpdateLastSeen(ctx, id, s.now(), reportedBy)
}
