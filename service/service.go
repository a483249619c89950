package service

import (
	"time"

	"nearbyserve/pkg/logger"
	"nearbyserve/storage"
)

type IServiceManager interface {
	Request() RequestService
	Recipient() RecipientService
	Volunteer() VolunteerService
	User() UserService
}

type service struct {
	requestService   RequestService
	recipientService RecipientService
	volunteerService VolunteerService
	userService      UserService
}

func New(stg storage.IStorage, log logger.ILogger, recipientTTL time.Duration) IServiceManager {
	return &service{
		requestService:   NewRequestService(stg, log, recipientTTL),
		recipientService: NewRecipientService(stg, log, recipientTTL),
		volunteerService: NewVolunteerService(stg, log),
		userService:      NewUserService(stg, log),
	}
}

func (s *service) Request() RequestService {
	return s.requestService
}

func (s *service) Recipient() RecipientService {
	return s.recipientService
}

func (s *service) Volunteer() VolunteerService {
	return s.volunteerService
}

func (s *service) User() UserService {
	return s.userService
}
