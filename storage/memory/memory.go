// Package memory is an in-process storage backend. It backs the local demo
// mode and the unit tests; semantics (conditional status updates included)
// match the postgres backend.
package memory

import (
	"context"
	"sync"
	"time"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type Store struct {
	mu sync.RWMutex

	recipients map[string]*models.Recipient
	requests   map[string]*models.DeliveryRequest
	volunteers map[string]*models.Volunteer
	users      map[string]*models.UserProfile

	subMu  sync.Mutex
	subs   []chan storage.Change
	closed bool

	log logger.ILogger
}

func New(log logger.ILogger) *Store {
	return &Store{
		recipients: make(map[string]*models.Recipient),
		requests:   make(map[string]*models.DeliveryRequest),
		volunteers: make(map[string]*models.Volunteer),
		users:      make(map[string]*models.UserProfile),
		log:        log,
	}
}

func (s *Store) Recipient() storage.IRecipientStorage { return &recipientRepo{s} }
func (s *Store) Request() storage.IRequestStorage     { return &requestRepo{s} }
func (s *Store) Volunteer() storage.IVolunteerStorage { return &volunteerRepo{s} }
func (s *Store) User() storage.IUserStorage           { return &userRepo{s} }

func (s *Store) Changes(ctx context.Context) (<-chan storage.Change, error) {
	ch := make(chan storage.Change, 16)

	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

func (s *Store) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		close(sub)
	}
	s.subs = nil
}

// emit notifies subscribers of a collection mutation. Slow subscribers
// drop changes rather than block mutations; pollers recover missed state.
func (s *Store) emit(collection string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	change := storage.Change{Collection: collection, At: time.Now()}
	for _, sub := range s.subs {
		select {
		case sub <- change:
		default:
		}
	}
}
