package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/nightguard-api/internal/config"
	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/handler"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/repository/memory"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/storage"
)

const adminPassword = "night-shift-admin"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := zerolog.Nop()
	validate := dto.NewValidator()
	store := memory.NewStore()
	events := service.NewEventService(nil, "", logger)
	activity := service.NewActivityService(store.Activity(), logger)

	documents, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	auth := service.NewAuthService(store.Users(), store.Sessions(), validate, service.AuthOptions{
		Secret:   "router-test-secret",
		TTL:      time.Hour,
		HashCost: bcrypt.MinCost,
	}, events, logger)
	created, err := auth.BootstrapAdmin(context.Background(), adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	dashboard := service.NewDashboardService(store, nil, time.Minute, logger)
	events.AddListener(dashboard.Listener())

	cfg := config.Config{AppName: "NightGuard API", AppEnv: "test", DatabaseDriver: config.DriverMemory}
	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	Register(app, cfg, Dependencies{
		Authenticator: auth,
		AuthHandler:   handler.NewAuthHandler(auth, false, logger),
		VenueHandler:  handler.NewVenueHandler(service.NewVenueService(store.Venues(), validate, events, logger), logger),
		IncidentHandler: handler.NewIncidentHandler(
			service.NewIncidentService(store.Incidents(), store.Venues(), validate, activity, events, logger), logger),
		SignInHandler: handler.NewSignInHandler(service.NewSignInService(store.SignIns(), store.Venues(), validate, activity, events, logger), logger),
		CctvHandler: handler.NewCctvHandler(
			service.NewCctvService(store.Cameras(), store.Checks(), validate, activity, events, logger), logger),
		ScheduleHandler: handler.NewScheduleHandler(service.NewScheduleService(store.Schedules(), validate, events, logger), logger),
		UserHandler:     handler.NewUserHandler(service.NewUserService(store.Users(), validate, activity, events, logger), logger),
		DocumentHandler: handler.NewDocumentHandler(
			service.NewDocumentService(store.Users(), documents, service.DocumentOptions{}, activity, events, logger), logger),
		DashboardHandler: handler.NewDashboardHandler(dashboard, logger),
		ActivityHandler:  handler.NewActivityHandler(activity, logger),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := call(t, app, fiber.MethodPost, "/api/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	var body dto.LoginResponse
	decode(t, resp, &body)
	require.Equal(t, cookie.Value, body.Token)
	return body.Token
}

func registerGuard(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()
	resp := call(t, app, fiber.MethodPost, "/api/register", "", dto.RegisterRequest{
		Username: username,
		Password: "guard-password",
		Name:     "Guard " + username,
		Email:    username + "@example.com",
		Role:     role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return login(t, app, username, "guard-password")
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	app := newTestApp(t)

	resp := call(t, app, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health handler.HealthResponse
	decode(t, resp, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, config.DriverMemory, health.Storage)

	resp = call(t, app, fiber.MethodGet, "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	resp := call(t, app, fiber.MethodGet, "/api/venues", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, fiber.MethodGet, "/api/venues", "not-a-token", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	require.Equal(t, "Not authenticated", body["message"])
}

func TestIncidentReviewFlow(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "admin", adminPassword)
	staff := registerGuard(t, app, "doorstaff", "staff")

	resp := call(t, app, fiber.MethodPost, "/api/venues", admin, dto.VenueCreateRequest{
		Name: "The Vault", Address: "12 Queen St", Contact: "0400 111 222",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var venue models.Venue
	decode(t, resp, &venue)

	resp = call(t, app, fiber.MethodPost, "/api/incidents", staff, dto.IncidentCreateRequest{
		Type: "Altercation", Severity: "medium", Date: time.Now().UTC(), VenueID: venue.ID,
		Location: "Front door", Description: "Two patrons argued", ReportedBy: "Sam", Position: "Door",
		Status: models.IncidentStatusApproved,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var incident models.Incident
	decode(t, resp, &incident)
	require.Equal(t, models.IncidentStatusPending, incident.Status)

	approvePath := "/api/incidents/" + itoa(incident.ID) + "/approve"

	resp = call(t, app, fiber.MethodPost, approvePath, staff, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	var denied map[string]interface{}
	decode(t, resp, &denied)
	require.Equal(t, "Not authorized. Only admin or manager can approve incidents.", denied["message"])

	resp = call(t, app, fiber.MethodPost, approvePath, admin, map[string]string{"notes": "Handled well"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var approved models.Incident
	decode(t, resp, &approved)
	require.Equal(t, models.IncidentStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)

	resp = call(t, app, fiber.MethodPost, approvePath, admin, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, fiber.MethodGet, "/api/incidents/status/approved", staff, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listed []models.Incident
	decode(t, resp, &listed)
	require.Len(t, listed, 1)

	resp = call(t, app, fiber.MethodGet, "/api/activity-logs?entityType=incident", staff, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = call(t, app, fiber.MethodGet, "/api/activity-logs?entityType=incident&entityId="+itoa(incident.ID), admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var audit dto.ActivityLogPage
	decode(t, resp, &audit)
	require.EqualValues(t, 1, audit.Total)
	require.Equal(t, "incident.approved", audit.Items[0].Action)

	resp = call(t, app, fiber.MethodGet, "/api/dashboard/stats", staff, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats dto.DashboardStats
	decode(t, resp, &stats)
	require.Equal(t, 1, stats.TotalIncidents)
	require.Equal(t, 0, stats.PendingIncidents)
}

func TestRoleFloors(t *testing.T) {
	app := newTestApp(t)
	staff := registerGuard(t, app, "cloakroom", "staff")
	guard := registerGuard(t, app, "patrol", "security")

	resp := call(t, app, fiber.MethodGet, "/api/users", staff, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	require.Equal(t, "Unauthorized: Admin access required", body["message"])

	resp = call(t, app, fiber.MethodGet, "/api/security-sign-ins", staff, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = call(t, app, fiber.MethodGet, "/api/security-sign-ins", guard, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = call(t, app, fiber.MethodPost, "/api/cctv/cameras", guard, dto.CameraCreateRequest{
		Name: "Bar", Location: "Bar", VenueID: 1, Type: "dome",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = call(t, app, fiber.MethodGet, "/api/permissions", guard, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var perms dto.PermissionsResponse
	decode(t, resp, &perms)
	require.Equal(t, "security", perms.Role)
	require.True(t, perms.Pages["securitySignIn"])
	require.False(t, perms.Pages["users"])
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", adminPassword)

	resp := call(t, app, fiber.MethodGet, "/api/user", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var user models.User
	decode(t, resp, &user)
	require.Equal(t, "admin", user.Username)

	resp = call(t, app, fiber.MethodPost, "/api/logout", token, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = call(t, app, fiber.MethodGet, "/api/user", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVenueCheckListReturnsEveryCheck(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", adminPassword)

	resp := call(t, app, fiber.MethodPost, "/api/cctv/cameras", token, dto.CameraCreateRequest{
		Name: "Door", Location: "Front", VenueID: 1, Type: "dome",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var camera models.CctvCamera
	decode(t, resp, &camera)

	for i := 0; i < 12; i++ {
		resp = call(t, app, fiber.MethodPost, "/api/cctv/checks", token, dto.CheckCreateRequest{
			CameraID: camera.ID, ShiftType: "start", Status: "working",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp = call(t, app, fiber.MethodGet, "/api/cctv/checks?venueId=1", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var all []models.CctvCheck
	decode(t, resp, &all)
	require.Len(t, all, 12)

	resp = call(t, app, fiber.MethodGet, "/api/cctv/checks?venueId=1&limit=5", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var recent []models.CctvCheck
	decode(t, resp, &recent)
	require.Len(t, recent, 5)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
