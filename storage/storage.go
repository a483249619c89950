package storage

import (
	"context"
	"time"

	"nearbyserve/pkg/models"
)

// Collection names used by the change feed.
const (
	CollectionRecipients = "recipients"
	CollectionRequests   = "requests"
	CollectionVolunteers = "volunteers"
	CollectionUsers      = "users"
)

// Change is a push notification that a collection was mutated. Consumers
// re-read the collection; no payload is carried.
type Change struct {
	Collection string
	At         time.Time
}

type IStorage interface {
	Recipient() IRecipientStorage
	Request() IRequestStorage
	Volunteer() IVolunteerStorage
	User() IUserStorage

	// Changes returns a feed of collection mutations. The feed may be
	// silent on backends without push support; pollers must not rely
	// on it exclusively.
	Changes(ctx context.Context) (<-chan Change, error)
	Close()
}

type IRecipientStorage interface {
	Create(ctx context.Context, rec *models.Recipient) (*models.Recipient, error)
	GetByID(ctx context.Context, id string) (*models.Recipient, error)
	GetAll(ctx context.Context) ([]*models.Recipient, error)
	Update(ctx context.Context, rec *models.Recipient) (*models.Recipient, error)
	UpdateLastSeen(ctx context.Context, id string, seen time.Time, reportedBy string) error
	Delete(ctx context.Context, id string) error
}

type IRequestStorage interface {
	Create(ctx context.Context, req *models.DeliveryRequest) (*models.DeliveryRequest, error)
	GetByID(ctx context.Context, id string) (*models.DeliveryRequest, error)
	GetAll(ctx context.Context) ([]*models.DeliveryRequest, error)
	GetByStatus(ctx context.Context, status models.RequestStatus) ([]*models.DeliveryRequest, error)
	GetByVolunteer(ctx context.Context, volunteerID string) ([]*models.DeliveryRequest, error)
	GetByDonor(ctx context.Context, donorName string) ([]*models.DeliveryRequest, error)

	// Accept is a conditional update: it assigns the volunteer and moves
	// the request to accepted only while the status is still pending.
	// A lost race returns models.ErrInvalidState.
	Accept(ctx context.Context, id, volunteerID, volunteerName string, at time.Time) error

	// AdvanceStatus moves a request from exactly `from` to `to`, applying
	// patch fields in the same update. Returns models.ErrInvalidState if
	// the request is no longer in `from`.
	AdvanceStatus(ctx context.Context, id string, from, to models.RequestStatus, patch models.RequestPatch) error

	// CountDelivered counts requests fulfilled by the volunteer
	// (status delivered or paid).
	CountDelivered(ctx context.Context, volunteerID string) (int, error)
}

type IVolunteerStorage interface {
	Create(ctx context.Context, v *models.Volunteer) (*models.Volunteer, error)
	GetByID(ctx context.Context, id string) (*models.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	GetAll(ctx context.Context) ([]*models.Volunteer, error)
	GetOnline(ctx context.Context) ([]*models.Volunteer, error)
	SetOnline(ctx context.Context, id string, online bool) error
	SetVerified(ctx context.Context, id string, verified bool) error
	Delete(ctx context.Context, id string) error
}

type IUserStorage interface {
	Create(ctx context.Context, u *models.UserProfile) (*models.UserProfile, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	GetAll(ctx context.Context) ([]*models.UserProfile, error)
}
