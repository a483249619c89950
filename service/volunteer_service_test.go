package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearbyserve/pkg/models"
)

func TestRegisterVolunteer_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.volunteers.Register(ctx, &models.Volunteer{
		Name:  "Vikram Singh",
		Email: "vikram@annadaan.org",
	})
	require.NoError(t, err)
	assert.False(t, v.Verified)
	assert.False(t, v.IsOnline)
	assert.Zero(t, v.TotalDeliveries)

	_, err = f.volunteers.Register(ctx, &models.Volunteer{
		Name:  "Someone Else",
		Email: "VIKRAM@annadaan.org",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestRegisterVolunteer_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.volunteers.Register(context.Background(), &models.Volunteer{Name: "No Email"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestVolunteer_TotalDeliveriesDerived(t *testing.T) {
	f := newFixture(t)
	rec := f.addRecipient(t)
	ctx := context.Background()

	v, err := f.volunteers.Register(ctx, &models.Volunteer{
		Name:  "Vikram Singh",
		Email: "vikram@annadaan.org",
	})
	require.NoError(t, err)

	deliver := func() *models.DeliveryRequest {
		req := f.createRequest(t, rec.ID, models.ModeVolunteer)
		_, err := f.requests.Accept(ctx, req.ID, v.ID, v.Name)
		require.NoError(t, err)
		_, err = f.requests.VerifyPickup(ctx, req.ID, req.PickupOtp)
		require.NoError(t, err)
		_, err = f.requests.SubmitProof(ctx, req.ID, "https://proof/x.jpg", models.ProofImage)
		require.NoError(t, err)
		return req
	}

	first := deliver()
	deliver()

	got, err := f.volunteers.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalDeliveries)

	// Paying out keeps the request counted.
	_, err = f.requests.ApprovePayout(ctx, first.ID)
	require.NoError(t, err)

	got, err = f.volunteers.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalDeliveries)

	// An accepted-but-undelivered task does not count.
	req := f.createRequest(t, rec.ID, models.ModeVolunteer)
	_, err = f.requests.Accept(ctx, req.ID, v.ID, v.Name)
	require.NoError(t, err)

	got, err = f.volunteers.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalDeliveries)
}

func TestVolunteer_OnlineRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.volunteers.Register(ctx, &models.Volunteer{Name: "A", Email: "a@x.org"})
	require.NoError(t, err)
	_, err = f.volunteers.Register(ctx, &models.Volunteer{Name: "B", Email: "b@x.org"})
	require.NoError(t, err)

	require.NoError(t, f.volunteers.SetOnline(ctx, a.ID, true))

	online, err := f.volunteers.Online(ctx)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, a.ID, online[0].ID)

	require.NoError(t, f.volunteers.SetOnline(ctx, a.ID, false))

	online, err = f.volunteers.Online(ctx)
	require.NoError(t, err)
	assert.Empty(t, online)
}
