package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/permission"
)

func TestSignInDefaultsAndSignOutOnce(t *testing.T) {
	env := newTestEnv()
	svc := NewSignInService(env.store.SignIns(), env.store.Venues(), testValidator(), env.activity, env.events, testLogger())
	fixed := time.Date(2024, 5, 4, 21, 0, 0, 0, time.UTC)
	svc.(*signInService).now = func() time.Time { return fixed }

	venue := env.seedVenue(t, "Harbour Bar")
	guard := env.seedUser(t, "guard", permission.Security)
	ctx := context.Background()

	signIn, err := svc.Create(ctx, actorFor(guard), dto.SignInCreateRequest{
		SecurityName: "J. Guard",
		BadgeNumber:  "B-1",
		VenueID:      venue.ID,
		Position:     "Door",
	})
	require.NoError(t, err)
	require.Equal(t, models.SignInStatusOnDuty, signIn.Status)
	require.True(t, signIn.TimeIn.Equal(fixed))
	require.True(t, signIn.Date.Equal(fixed))
	require.Nil(t, signIn.TimeOut)

	out := fixed.Add(6 * time.Hour)
	closed, err := svc.SignOut(ctx, actorFor(guard), signIn.ID, &out)
	require.NoError(t, err)
	require.Equal(t, models.SignInStatusOffDuty, closed.Status)
	require.NotNil(t, closed.TimeOut)
	require.True(t, closed.TimeOut.Equal(out))

	_, err = svc.SignOut(ctx, actorFor(guard), signIn.ID, nil)
	require.ErrorIs(t, err, ErrInvalidState)
	require.EqualError(t, err, "Security staff is already signed out")

	_, err = svc.SignOut(ctx, actorFor(guard), 999, nil)
	require.ErrorIs(t, err, ErrNotFound)

	require.Equal(t, []string{EventSignInCreated, EventSignedOut}, env.events.types())
}

func TestSignOutDefaultsToNow(t *testing.T) {
	env := newTestEnv()
	svc := NewSignInService(env.store.SignIns(), env.store.Venues(), testValidator(), env.activity, env.events, testLogger())
	fixed := time.Date(2024, 5, 4, 23, 15, 0, 0, time.UTC)
	svc.(*signInService).now = func() time.Time { return fixed }
	venue := env.seedVenue(t, "Dockside")
	ctx := context.Background()

	signIn, err := svc.Create(ctx, Actor{ID: 1, Role: permission.Security}, dto.SignInCreateRequest{
		SecurityName: "A", BadgeNumber: "B-2", VenueID: venue.ID, Position: "Floor",
	})
	require.NoError(t, err)

	closed, err := svc.SignOut(ctx, Actor{ID: 1, Role: permission.Security}, signIn.ID, nil)
	require.NoError(t, err)
	require.True(t, closed.TimeOut.Equal(fixed))
}

func TestSignInListActiveOnly(t *testing.T) {
	env := newTestEnv()
	svc := NewSignInService(env.store.SignIns(), env.store.Venues(), testValidator(), env.activity, env.events, testLogger())
	actor := Actor{ID: 1, Role: permission.Security}
	one := env.seedVenue(t, "One")
	two := env.seedVenue(t, "Two")
	ctx := context.Background()

	first, err := svc.Create(ctx, actor, dto.SignInCreateRequest{SecurityName: "A", BadgeNumber: "1", VenueID: one.ID, Position: "Door"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, dto.SignInCreateRequest{SecurityName: "B", BadgeNumber: "2", VenueID: two.ID, Position: "Door"})
	require.NoError(t, err)
	_, err = svc.SignOut(ctx, actor, first.ID, nil)
	require.NoError(t, err)

	active, err := svc.List(ctx, dto.SignInListQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "B", active[0].SecurityName)

	byVenue, err := svc.List(ctx, dto.SignInListQuery{VenueID: &one.ID})
	require.NoError(t, err)
	require.Len(t, byVenue, 1)
}

func TestSignInCreateValidates(t *testing.T) {
	env := newTestEnv()
	svc := NewSignInService(env.store.SignIns(), env.store.Venues(), testValidator(), env.activity, env.events, testLogger())

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: permission.Security}, dto.SignInCreateRequest{})
	_, ok := IsValidation(err)
	require.True(t, ok)
}

func TestSignInRejectsUnknownVenue(t *testing.T) {
	env := newTestEnv()
	svc := NewSignInService(env.store.SignIns(), env.store.Venues(), testValidator(), env.activity, env.events, testLogger())
	actor := Actor{ID: 1, Role: permission.Security}
	ctx := context.Background()

	_, err := svc.Create(ctx, actor, dto.SignInCreateRequest{SecurityName: "A", BadgeNumber: "1", VenueID: 42, Position: "Door"})
	verr, ok := IsValidation(err)
	require.True(t, ok)
	require.Equal(t, "venue_id", verr.Fields[0].Field)

	venue := env.seedVenue(t, "Known")
	signIn, err := svc.Create(ctx, actor, dto.SignInCreateRequest{SecurityName: "A", BadgeNumber: "1", VenueID: venue.ID, Position: "Door"})
	require.NoError(t, err)

	missing := uint(42)
	_, err = svc.Update(ctx, actor, signIn.ID, dto.SignInUpdateRequest{VenueID: &missing})
	verr, ok = IsValidation(err)
	require.True(t, ok)
	require.Equal(t, "venue_id", verr.Fields[0].Field)

	stored, err := svc.Get(ctx, signIn.ID)
	require.NoError(t, err)
	require.Equal(t, venue.ID, stored.VenueID)
	require.Equal(t, []string{EventSignInCreated}, env.events.types())
}
