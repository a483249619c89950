package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage/memory"
)

func newRecipientFixture(t *testing.T) (*recipientService, time.Time) {
	t.Helper()

	log := logger.New("test", "error")
	store := memory.New(log)
	t.Cleanup(store.Close)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewRecipientService(store, log, 24*time.Hour).(*recipientService)
	svc.now = func() time.Time { return now }
	return svc, now
}

func TestAddRecipient_Validation(t *testing.T) {
	svc, _ := newRecipientFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		rec  models.Recipient
	}{
		{"empty name", models.Recipient{Count: 2, Needs: []string{"Rice"}}},
		{"zero count", models.Recipient{Name: "Group", Count: 0, Needs: []string{"Rice"}}},
		{"negative count", models.Recipient{Name: "Group", Count: -4, Needs: []string{"Rice"}}},
		{"no needs", models.Recipient{Name: "Group", Count: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, &tc.rec)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestAddRecipient_Defaults(t *testing.T) {
	svc, now := newRecipientFixture(t)

	rec, err := svc.Add(context.Background(), &models.Recipient{
		Name:  "Family under Flyover",
		Count: 3,
		Needs: []string{"Milk", "Bread"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.RecipientActive, rec.Status)
	assert.Equal(t, now, rec.LastSeen)
}

func TestListActive_StalenessBoundary(t *testing.T) {
	svc, now := newRecipientFixture(t)
	ctx := context.Background()

	fresh, err := svc.Add(ctx, &models.Recipient{
		Name:     "Just inside the window",
		Count:    2,
		Needs:    []string{"Rice"},
		LastSeen: now.Add(-24*time.Hour + time.Millisecond),
	})
	require.NoError(t, err)

	_, err = svc.Add(ctx, &models.Recipient{
		Name:     "Just outside the window",
		Count:    2,
		Needs:    []string{"Rice"},
		LastSeen: now.Add(-24*time.Hour - time.Millisecond),
	})
	require.NoError(t, err)

	_, err = svc.Add(ctx, &models.Recipient{
		Name:     "Already helped",
		Count:    2,
		Needs:    []string{"Rice"},
		Status:   models.RecipientHelped,
		LastSeen: now,
	})
	require.NoError(t, err)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, fresh.ID, active[0].ID)

	// Admin and volunteer views still see everyone.
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestConfirm_RefreshesLastSeen(t *testing.T) {
	svc, now := newRecipientFixture(t)
	ctx := context.Background()

	rec, err := svc.Add(ctx, &models.Recipient{
		Name:     "Group near Hanuman Mandir",
		Count:    5,
		Needs:    []string{"Roti & Sabzi"},
		LastSeen: now.Add(-30 * time.Hour),
	})
	require.NoError(t, err)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, svc.Confirm(ctx, rec.ID, "vol_a"))

	active, err = svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "vol_a", active[0].ReportedBy)
}

func TestConfirm_UnknownRecipient(t *testing.T) {
	svc, _ := newRecipientFixture(t)

	err := svc.Confirm(context.Background(), "missing", "vol_a")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
