package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type VolunteerService interface {
	Register(ctx context.Context, v *models.Volunteer) (*models.Volunteer, error)
	GetByID(ctx context.Context, id string) (*models.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	List(ctx context.Context) ([]*models.Volunteer, error)
	Online(ctx context.Context) ([]*models.Volunteer, error)
	SetOnline(ctx context.Context, id string, online bool) error
	Verify(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

type volunteerService struct {
	volunteers storage.IVolunteerStorage
	requests   storage.IRequestStorage
	log        logger.ILogger
}

func NewVolunteerService(stg storage.IStorage, log logger.ILogger) VolunteerService {
	return &volunteerService{
		volunteers: stg.Volunteer(),
		requests:   stg.Request(),
		log:        log,
	}
}

func (s *volunteerService) Register(ctx context.Context, v *models.Volunteer) (*models.Volunteer, error) {
	v.Email = strings.TrimSpace(strings.ToLower(v.Email))
	if v.Name == "" || v.Email == "" {
		return nil, fmt.Errorf("volunteer name and email are required: %w", models.ErrValidation)
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.Verified = false
	v.IsOnline = false
	v.TotalDeliveries = 0

	created, err := s.volunteers.Create(ctx, v)
	if err != nil {
		return nil, err
	}

	s.log.Info("volunteer registered", logger.String("id", created.ID), logger.String("email", created.Email))
	return created, nil
}

func (s *volunteerService) GetByID(ctx context.Context, id string) (*models.Volunteer, error) {
	v, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withDeliveries(ctx, v)
}

func (s *volunteerService) GetByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	v, err := s.volunteers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.withDeliveries(ctx, v)
}

func (s *volunteerService) List(ctx context.Context) ([]*models.Volunteer, error) {
	return s.decorate(ctx, s.volunteers.GetAll)
}

func (s *volunteerService) Online(ctx context.Context) ([]*models.Volunteer, error) {
	return s.decorate(ctx, s.volunteers.GetOnline)
}

func (s *volunteerService) SetOnline(ctx context.Context, id string, online bool) error {
	return s.volunteers.SetOnline(ctx, id, online)
}

func (s *volunteerService) Verify(ctx context.Context, id string) error {
	return s.volunteers.SetVerified(ctx, id, true)
}

func (s *volunteerService) Remove(ctx context.Context, id string) error {
	return s.volunteers.Delete(ctx, id)
}

func (s *volunteerService) decorate(ctx context.Context, list func(context.Context) ([]*models.Volunteer, error)) ([]*models.Volunteer, error) {
	volunteers, err := list(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range volunteers {
		if _, err := s.withDeliveries(ctx, v); err != nil {
			return nil, err
		}
	}
	return volunteers, nil
}

// withDeliveries fills TotalDeliveries from the requests collection.
// The counter is always derived so it cannot drift from the source of truth.
func (s *volunteerService) withDeliveries(ctx context.Context, v *models.Volunteer) (*models.Volunteer, error) {
	n, err := s.requests.CountDelivered(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.TotalDeliveries = n
	return v, nil
}
