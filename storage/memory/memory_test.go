package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New(logger.New("test", "error"))
	t.Cleanup(s.Close)
	return s
}

func seedRequest(t *testing.T, s *Store, id string) *models.DeliveryRequest {
	t.Helper()
	now := time.Now()
	req, err := s.Request().Create(context.Background(), &models.DeliveryRequest{
		ID:            id,
		RecipientID:   "rec_1",
		RecipientName: "Group",
		DonorName:     "Donor",
		Items:         "Rice",
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	return req
}

func TestAccept_OnlyOneWinner(t *testing.T) {
	s := newStore(t)
	seedRequest(t, s, "req_1")

	const racers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []string
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("vol_%d", n)
			err := s.Request().Accept(context.Background(), "req_1", id, "racer", time.Now())
			if err == nil {
				mu.Lock()
				wins = append(wins, id)
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, models.ErrInvalidState)
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, wins, 1)

	req, err := s.Request().GetByID(context.Background(), "req_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, req.Status)
	assert.Equal(t, wins[0], req.VolunteerID)
}

func TestAdvanceStatus_WrongFromState(t *testing.T) {
	s := newStore(t)
	seedRequest(t, s, "req_1")
	ctx := context.Background()

	err := s.Request().AdvanceStatus(ctx, "req_1", models.StatusAccepted, models.StatusPickedUp,
		models.RequestPatch{UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	err = s.Request().AdvanceStatus(ctx, "missing", models.StatusPending, models.StatusAccepted,
		models.RequestPatch{UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := newStore(t)
	seedRequest(t, s, "req_1")

	first, err := s.Request().GetByID(context.Background(), "req_1")
	require.NoError(t, err)

	// Mutating the returned record must not leak into the store.
	first.Status = models.StatusPaid
	first.VolunteerID = "intruder"

	second, err := s.Request().GetByID(context.Background(), "req_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, second.Status)
	assert.Empty(t, second.VolunteerID)
}

func TestChanges_DeliversMutations(t *testing.T) {
	s := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := s.Changes(ctx)
	require.NoError(t, err)

	seedRequest(t, s, "req_1")

	select {
	case change := <-changes:
		assert.Equal(t, storage.CollectionRequests, change.Collection)
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	// The subscription channel closes once the context is gone.
	assert.Eventually(t, func() bool {
		_, open := <-changes
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestVolunteerRepo_DuplicateEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Volunteer().Create(ctx, &models.Volunteer{ID: "v1", Name: "A", Email: "a@x.org"})
	require.NoError(t, err)

	_, err = s.Volunteer().Create(ctx, &models.Volunteer{ID: "v2", Name: "B", Email: "A@X.ORG"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}
