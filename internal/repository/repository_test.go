package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/nightguard-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func strPtr(value string) *string { return &value }

func uintPtr(value uint) *uint { return &value }

func seedIncident(t *testing.T, store Store, venueID uint) models.Incident {
	t.Helper()

	incident := models.Incident{
		Type:        "assault",
		Severity:    "high",
		Date:        time.Now().UTC(),
		VenueID:     venueID,
		Location:    "front door",
		Description: "scuffle in the queue",
		ReportedBy:  "Sam",
		Position:    "door",
	}
	require.NoError(t, store.Incidents().Create(context.Background(), &incident))
	return incident
}

func TestVenueRepositoryCRUD(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	venue := models.Venue{Name: "X", Address: "1 St", Contact: "555"}
	require.NoError(t, store.Venues().Create(ctx, &venue))
	require.NotZero(t, venue.ID)
	require.Equal(t, models.VenueStatusClosed, venue.Status)

	updated, err := store.Venues().Update(ctx, venue.ID, VenueUpdate{Status: strPtr(models.VenueStatusOpen)})
	require.NoError(t, err)
	require.True(t, updated.IsOpen())
	require.Equal(t, "X", updated.Name)

	_, err = store.Venues().Update(ctx, 999, VenueUpdate{Name: strPtr("nope")})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Venues().Delete(ctx, venue.ID))
	require.ErrorIs(t, store.Venues().Delete(ctx, venue.ID), ErrNotFound)

	_, err = store.Venues().GetByID(ctx, venue.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIncidentRepositoryReviewIsConditional(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	incident := seedIncident(t, store, 1)
	require.Equal(t, models.IncidentStatusPending, incident.Status)

	at := time.Now().UTC().Truncate(time.Second)
	reviewed, err := store.Incidents().Review(ctx, incident.ID, IncidentReview{
		Status:     models.IncidentStatusApproved,
		ReviewerID: 7,
		Notes:      strPtr("ok"),
		At:         at,
	})
	require.NoError(t, err)
	require.Equal(t, models.IncidentStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	require.Equal(t, uint(7), *reviewed.ReviewedBy)
	require.Equal(t, "ok", *reviewed.ReviewNotes)

	again, err := store.Incidents().Review(ctx, incident.ID, IncidentReview{
		Status:     models.IncidentStatusRejected,
		ReviewerID: 8,
		Notes:      strPtr("changed my mind"),
		At:         at.Add(time.Minute),
	})
	require.ErrorIs(t, err, ErrStateConflict)
	require.Equal(t, models.IncidentStatusApproved, again.Status)
	require.Equal(t, uint(7), *again.ReviewedBy)
	require.Equal(t, "ok", *again.ReviewNotes)

	_, err = store.Incidents().Review(ctx, 999, IncidentReview{Status: models.IncidentStatusApproved, ReviewerID: 7, At: at})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIncidentRepositoryListFilters(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	first := seedIncident(t, store, 1)
	second := seedIncident(t, store, 2)
	mine := models.Incident{
		Type: "theft", Severity: "low", Date: time.Now().UTC().Add(time.Hour), VenueID: 2,
		Location: "bar", Description: "wallet", ReportedBy: "Ana", Position: "floor", CreatedBy: uintPtr(5),
	}
	require.NoError(t, store.Incidents().Create(ctx, &mine))

	all, err := store.Incidents().List(ctx, IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, first.ID, all[0].ID)

	byVenue, err := store.Incidents().List(ctx, IncidentFilter{VenueID: uintPtr(2)})
	require.NoError(t, err)
	require.Len(t, byVenue, 2)
	require.Equal(t, second.ID, byVenue[0].ID)

	byCreator, err := store.Incidents().List(ctx, IncidentFilter{CreatedBy: uintPtr(5)})
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	require.Equal(t, mine.ID, byCreator[0].ID)

	pending, err := store.Incidents().List(ctx, IncidentFilter{Status: models.IncidentStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 3)

	recent, err := store.Incidents().ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, mine.ID, recent[0].ID)
}

func TestSignInRepositorySignOutOnce(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	signIn := models.SecuritySignIn{
		SecurityName: "Lee", BadgeNumber: "B-1", VenueID: 1, Position: "door", Date: now, TimeIn: now,
	}
	require.NoError(t, store.SignIns().Create(ctx, &signIn))
	require.Equal(t, models.SignInStatusOnDuty, signIn.Status)

	active, err := store.SignIns().List(ctx, SignInFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)

	out, err := store.SignIns().SignOut(ctx, signIn.ID, now.Add(8*time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.SignInStatusOffDuty, out.Status)
	require.NotNil(t, out.TimeOut)

	_, err = store.SignIns().SignOut(ctx, signIn.ID, now.Add(9*time.Hour))
	require.ErrorIs(t, err, ErrStateConflict)

	_, err = store.SignIns().SignOut(ctx, 999, now)
	require.ErrorIs(t, err, ErrNotFound)

	active, err = store.SignIns().List(ctx, SignInFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestCheckRepositoryResolveAndRecent(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC()
	for i, status := range []string{models.CheckStatusWorking, models.CheckStatusIssue, models.CheckStatusOffline} {
		check := models.CctvCheck{
			CameraID: 1, CheckedBy: 1, VenueID: 3, CheckTime: base.Add(time.Duration(i) * time.Minute),
			ShiftType: models.ShiftTypeStart, Status: status,
		}
		require.NoError(t, store.Checks().Create(ctx, &check))
	}

	open, err := store.Checks().List(ctx, CheckFilter{OpenIssuesOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 2)

	recent, err := store.Checks().List(ctx, CheckFilter{VenueID: uintPtr(3), Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, models.CheckStatusOffline, recent[0].Status)

	resolved, err := store.Checks().Resolve(ctx, open[0].ID, "replaced cable")
	require.NoError(t, err)
	require.True(t, resolved.Resolved)
	require.Equal(t, "replaced cable", *resolved.ActionTaken)

	_, err = store.Checks().Resolve(ctx, open[0].ID, "again")
	require.ErrorIs(t, err, ErrStateConflict)
}

func TestUserRepositoryUniqueUsername(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	user := models.User{Username: "ops", Password: "hash", Name: "Ops", Email: "ops@example.com"}
	require.NoError(t, store.Users().Create(ctx, &user))
	require.Equal(t, "security", user.Role)

	dup := models.User{Username: "ops", Password: "hash", Name: "Other", Email: "o@example.com"}
	require.ErrorIs(t, store.Users().Create(ctx, &dup), ErrDuplicate)

	found, err := store.Users().GetByUsername(ctx, " ops ")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	verified := true
	updated, err := store.Users().Update(ctx, user.ID, UserUpdate{
		DocumentPath:     strPtr("/api/documents/document-1.pdf"),
		DocumentType:     strPtr(models.DocumentTypeSecurityLicense),
		DocumentVerified: &verified,
	})
	require.NoError(t, err)
	require.True(t, updated.DocumentVerified)
	require.Equal(t, models.DocumentTypeSecurityLicense, *updated.DocumentType)

	total, err := store.Users().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Sessions().Create(ctx, &models.Session{ID: "old", UserID: 1, ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Sessions().Create(ctx, &models.Session{ID: "live", UserID: 1, ExpiresAt: now.Add(time.Hour)}))

	removed, err := store.Sessions().DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	_, err = store.Sessions().Get(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)

	live, err := store.Sessions().Get(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, uint(1), live.UserID)
}

func TestScheduleRepositoryKeepsInactiveFlag(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	schedule := models.ShiftSchedule{VenueID: 1, Name: "Late", StartTime: "22:00", EndTime: "04:00", Active: false}
	require.NoError(t, store.Schedules().Create(ctx, &schedule))

	stored, err := store.Schedules().GetByID(ctx, schedule.ID)
	require.NoError(t, err)
	require.False(t, stored.Active)

	active := true
	updated, err := store.Schedules().Update(ctx, schedule.ID, ScheduleUpdate{Active: &active})
	require.NoError(t, err)
	require.True(t, updated.Active)
}

func TestActivityLogRepositoryFilters(t *testing.T) {
	store := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Activity().Create(ctx, &models.ActivityLog{ActorID: 1, ActorRole: "manager", Action: "incident.approved", EntityType: "incident", EntityID: uintPtr(4)}))
	require.NoError(t, store.Activity().Create(ctx, &models.ActivityLog{ActorID: 2, ActorRole: "security", Action: "sign_in.signed_out", EntityType: "security_sign_in"}))

	entries, total, err := store.Activity().List(ctx, ActivityLogFilter{EntityType: "incident"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "incident.approved", entries[0].Action)

	paged, total, err := store.Activity().List(ctx, ActivityLogFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, paged, 1)
}
