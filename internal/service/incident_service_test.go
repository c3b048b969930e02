package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository"
)

func newIncidentTestService(env *testEnv) IncidentService {
	return NewIncidentService(env.store.Incidents(), env.store.Venues(), testValidator(), env.activity, env.events, testLogger())
}

func incidentPayload(venueID uint) dto.IncidentCreateRequest {
	return dto.IncidentCreateRequest{
		Type:        "Altercation",
		Severity:    "high",
		Date:        time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC),
		VenueID:     venueID,
		Location:    "Front door",
		Description: "Two patrons argued",
		ReportedBy:  "J. Guard",
		Position:    "Door",
	}
}

func TestIncidentCreateForcesPendingAndSanitizes(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	venue := env.seedVenue(t, "Harbour Bar")
	reporter := env.seedUser(t, "guard", permission.Security)

	payload := incidentPayload(venue.ID)
	payload.Status = models.IncidentStatusApproved
	payload.Description = `Patron refused entry<script>alert(1)</script>`

	incident, err := svc.Create(context.Background(), actorFor(reporter), payload)
	require.NoError(t, err)
	require.Equal(t, models.IncidentStatusPending, incident.Status)
	require.Equal(t, "Patron refused entry", incident.Description)
	require.NotNil(t, incident.CreatedBy)
	require.Equal(t, reporter.ID, *incident.CreatedBy)
	require.Equal(t, []string{EventIncidentCreated}, env.events.types())
}

func TestIncidentCreateRequiresExistingVenue(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: permission.Security}, incidentPayload(99))
	validationErr, ok := IsValidation(err)
	require.True(t, ok)
	require.Equal(t, "venue_id", validationErr.Fields[0].Field)
}

func TestIncidentCreateReportsMissingFields(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: permission.Security}, dto.IncidentCreateRequest{})
	validationErr, ok := IsValidation(err)
	require.True(t, ok)
	require.NotEmpty(t, validationErr.Fields)
}

func TestIncidentApproveRequiresManager(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	venue := env.seedVenue(t, "Harbour Bar")
	guard := env.seedUser(t, "guard", permission.Security)

	incident, err := svc.Create(context.Background(), actorFor(guard), incidentPayload(venue.ID))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), actorFor(guard), incident.ID, nil)
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := svc.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	require.Equal(t, models.IncidentStatusPending, stored.Status)
}

func TestIncidentReviewIsOneShot(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	venue := env.seedVenue(t, "Harbour Bar")
	guard := env.seedUser(t, "guard", permission.Security)
	manager := env.seedUser(t, "manager", permission.Manager)
	ctx := context.Background()

	incident, err := svc.Create(ctx, actorFor(guard), incidentPayload(venue.ID))
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, actorFor(manager), incident.ID, strPtr("Checked footage"))
	require.NoError(t, err)
	require.Equal(t, models.IncidentStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	require.Equal(t, manager.ID, *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewDate)
	require.Equal(t, "Checked footage", *approved.ReviewNotes)

	_, err = svc.Reject(ctx, actorFor(manager), incident.ID, "Changed my mind")
	require.ErrorIs(t, err, ErrInvalidState)
	require.EqualError(t, err, "Incident is already approved")

	_, err = svc.Approve(ctx, actorFor(manager), incident.ID, nil)
	require.ErrorIs(t, err, ErrInvalidState)

	logs, total, err := env.activity.List(ctx, repository.ActivityLogFilter{EntityType: "incident"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "incident.approved", logs[0].Action)
	require.Contains(t, env.events.types(), EventIncidentApproved)
}

func TestIncidentRejectRequiresNotes(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	venue := env.seedVenue(t, "Harbour Bar")
	admin := env.seedUser(t, "admin", permission.Admin)
	ctx := context.Background()

	incident, err := svc.Create(ctx, actorFor(admin), incidentPayload(venue.ID))
	require.NoError(t, err)

	_, err = svc.Reject(ctx, actorFor(admin), incident.ID, "   ")
	validationErr, ok := IsValidation(err)
	require.True(t, ok)
	require.Equal(t, "Rejection notes are required", validationErr.Message)

	rejected, err := svc.Reject(ctx, actorFor(admin), incident.ID, "Duplicate report")
	require.NoError(t, err)
	require.Equal(t, models.IncidentStatusRejected, rejected.Status)
}

func TestIncidentReviewMissing(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)

	_, err := svc.Approve(context.Background(), Actor{ID: 1, Role: permission.Admin}, 42, nil)
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualError(t, err, "Incident not found")
}

func TestIncidentConcurrentReviewsHaveOneWinner(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	venue := env.seedVenue(t, "Harbour Bar")
	manager := env.seedUser(t, "manager", permission.Manager)
	ctx := context.Background()

	incident, err := svc.Create(ctx, actorFor(manager), incidentPayload(venue.ID))
	require.NoError(t, err)

	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			if i%2 == 0 {
				_, err := svc.Approve(ctx, actorFor(manager), incident.ID, nil)
				results <- err
				return
			}
			_, err := svc.Reject(ctx, actorFor(manager), incident.ID, "no")
			results <- err
		}(i)
	}

	successes := 0
	for i := 0; i < 8; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		require.True(t, errors.Is(err, ErrInvalidState), err)
	}
	require.Equal(t, 1, successes)
}

func TestIncidentListFiltersAndStatus(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	first := env.seedVenue(t, "Harbour Bar")
	second := env.seedVenue(t, "Rooftop")
	manager := env.seedUser(t, "manager", permission.Manager)
	ctx := context.Background()

	a, err := svc.Create(ctx, actorFor(manager), incidentPayload(first.ID))
	require.NoError(t, err)
	_, err = svc.Create(ctx, actorFor(manager), incidentPayload(second.ID))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, actorFor(manager), a.ID, nil)
	require.NoError(t, err)

	byVenue, err := svc.List(ctx, dto.IncidentListQuery{VenueID: &first.ID})
	require.NoError(t, err)
	require.Len(t, byVenue, 1)

	pending, err := svc.ListByStatus(ctx, models.IncidentStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].VenueID)

	_, err = svc.ListByStatus(ctx, "closed")
	_, ok := IsValidation(err)
	require.True(t, ok)

	all, err := svc.List(ctx, dto.IncidentListQuery{Status: "bogus"})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.ListByUser(ctx, manager.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestIncidentUpdateKeepsWorkflowFields(t *testing.T) {
	env := newTestEnv()
	svc := newIncidentTestService(env)
	venue := env.seedVenue(t, "Harbour Bar")
	manager := env.seedUser(t, "manager", permission.Manager)
	ctx := context.Background()

	incident, err := svc.Create(ctx, actorFor(manager), incidentPayload(venue.ID))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, actorFor(manager), incident.ID, dto.IncidentUpdateRequest{Location: strPtr("Beer garden")})
	require.NoError(t, err)
	require.Equal(t, "Beer garden", updated.Location)
	require.Equal(t, models.IncidentStatusPending, updated.Status)

	_, err = svc.Update(ctx, actorFor(manager), 404, dto.IncidentUpdateRequest{Location: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, actorFor(manager), incident.ID))
	require.ErrorIs(t, svc.Delete(ctx, actorFor(manager), incident.ID), ErrNotFound)
}
