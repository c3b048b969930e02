package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository/memory"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return dto.NewValidator()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []OperationalEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event OperationalEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

type testEnv struct {
	store    *memory.Store
	activity ActivityService
	events   *recordingPublisher
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	return &testEnv{
		store:    store,
		activity: NewActivityService(store.Activity(), testLogger()),
		events:   &recordingPublisher{},
	}
}

func (e *testEnv) seedVenue(t *testing.T, name string) models.Venue {
	t.Helper()
	venue := models.Venue{Name: name, Address: "1 Main St", Contact: "0400 000 000"}
	require.NoError(t, e.store.Venues().Create(context.Background(), &venue))
	return venue
}

func (e *testEnv) seedUser(t *testing.T, username string, role permission.Role) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x", Name: username, Email: username + "@example.com", Role: string(role)}
	require.NoError(t, e.store.Users().Create(context.Background(), &user))
	return user
}

func actorFor(user models.User) Actor {
	return Actor{ID: user.ID, Role: permission.Role(user.Role)}
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["document"]
	require.Len(t, files, 1)
	return files[0]
}

func strPtr(value string) *string { return &value }

func boolPtr(value bool) *bool { return &value }
