package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type UserService interface {
	Register(ctx context.Context, name, email string, role models.UserRole) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	List(ctx context.Context) ([]*models.UserProfile, error)
}

type userService struct {
	stg storage.IUserStorage
	log logger.ILogger
}

func NewUserService(stg storage.IStorage, log logger.ILogger) UserService {
	return &userService{
		stg: stg.User(),
		log: log,
	}
}

func (s *userService) Register(ctx context.Context, name, email string, role models.UserRole) (*models.UserProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required: %w", models.ErrValidation)
	}
	switch role {
	case models.RoleDonor, models.RoleVolunteer, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, models.ErrValidation)
	}

	u := &models.UserProfile{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}

	created, err := s.stg.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", logger.String("email", created.Email), logger.String("role", string(created.Role)))
	return created, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return s.stg.GetByEmail(ctx, email)
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*models.UserProfile, error) {
	return s.stg.GetAll(ctx)
}
