package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nightguard-api/internal/models"
)

func seedDashboard(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()

	open := models.Venue{Name: "Open", Address: "a", Contact: "c", Status: models.VenueStatusOpen}
	require.NoError(t, env.store.Venues().Create(ctx, &open))
	env.seedVenue(t, "Closed")

	base := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		incident := models.Incident{
			Type: "Noise", Severity: "low", Date: base.Add(time.Duration(i) * time.Hour),
			VenueID: open.ID, Location: "Bar", Description: "d", ReportedBy: "r", Position: "p",
		}
		require.NoError(t, env.store.Incidents().Create(ctx, &incident))
	}

	for i := 0; i < 2; i++ {
		signIn := models.SecuritySignIn{
			SecurityName: "Guard", BadgeNumber: "B", VenueID: open.ID, Position: "Door",
			Date: base, TimeIn: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.store.SignIns().Create(ctx, &signIn))
	}

	camera := models.CctvCamera{Name: "Cam", Location: "Door", VenueID: open.ID, Type: "dome"}
	require.NoError(t, env.store.Cameras().Create(ctx, &camera))
	check := models.CctvCheck{CameraID: camera.ID, CheckedBy: 1, VenueID: open.ID, ShiftType: "start", Status: models.CheckStatusIssue}
	require.NoError(t, env.store.Checks().Create(ctx, &check))
}

func TestDashboardStatsAggregates(t *testing.T) {
	env := newTestEnv()
	seedDashboard(t, env)
	svc := NewDashboardService(env.store, nil, 0, testLogger())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, stats.TotalIncidents)
	require.Equal(t, 12, stats.PendingIncidents)
	require.Equal(t, 2, stats.TotalSignIns)
	require.Equal(t, 1, stats.ActiveVenues)
	require.Equal(t, 2, stats.TotalVenues)
	require.Equal(t, 1, stats.TotalCameras)
	require.Equal(t, 1, stats.OpenCctvIssues)
	require.Len(t, stats.RecentIncidents, 10)
	require.True(t, stats.RecentIncidents[0].Date.After(stats.RecentIncidents[9].Date))
	require.Len(t, stats.ActiveSignIns, 2)
	require.True(t, stats.ActiveSignIns[0].TimeIn.After(stats.ActiveSignIns[1].TimeIn))
}

func TestDashboardStatsCachedUntilInvalidated(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	env := newTestEnv()
	seedDashboard(t, env)
	svc := NewDashboardService(env.store, client, time.Minute, testLogger())
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.True(t, server.Exists(dashboardSnapshotKey(0)))

	env.seedVenue(t, "Another")
	cached, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, first.TotalVenues, cached.TotalVenues)

	events := NewEventService(nil, "", testLogger())
	events.AddListener(svc.Listener())
	events.Publish(ctx, OperationalEvent{Type: EventVenueCreated, EntityID: 3})
	generation, err := server.Get(dashboardGenerationKey)
	require.NoError(t, err)
	require.Equal(t, "1", generation)

	fresh, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, first.TotalVenues+1, fresh.TotalVenues)
	require.True(t, server.Exists(dashboardSnapshotKey(1)))
}

func TestDashboardInvalidateDuringBuildIsNotServedStale(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	env := newTestEnv()
	seedDashboard(t, env)
	svc := NewDashboardService(env.store, client, time.Minute, testLogger()).(*dashboardService)
	ctx := context.Background()

	// A write lands and invalidates after the snapshot was aggregated but
	// before it reaches the cache.
	svc.built = func(ctx context.Context) {
		svc.built = nil
		env.seedVenue(t, "Late")
		svc.Invalidate(ctx)
	}
	stale, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stale.TotalVenues)

	fresh, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, fresh.TotalVenues)

	cached, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, cached.TotalVenues)
}

func TestDashboardSurvivesCacheOutage(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	env := newTestEnv()
	seedDashboard(t, env)
	svc := NewDashboardService(env.store, client, time.Minute, testLogger())

	server.Close()
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalVenues)
}
