package store

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"santactl/internal/api"
	"santactl/internal/apitest"
	"santactl/internal/model"
	"santactl/internal/session"
	"santactl/internal/transport"
)

// harness wires a full client stack against the in-process fake backend,
// the same way the command entry point does.
type harness struct {
	backend  *apitest.Server
	sessions *session.Manager
	auth     *Auth
	events   *Events
	admin    *Admin
	health   api.HealthService

	// expiredNotices counts authenticated-to-anonymous transitions seen
	// through the unauthorized callback.
	expiredNotices atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := apitest.NewServer()
	t.Cleanup(backend.Close)

	stateStore, err := session.OpenStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { stateStore.Close() })

	h := &harness{backend: backend}
	h.sessions = session.NewManager(stateStore, zap.NewNop())

	client := transport.New(transport.Config{
		BaseURL:        backend.URL,
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
		Tokens:         h.sessions,
		OnUnauthorized: func() {
			if h.sessions.Invalidate(context.Background()) {
				h.expiredNotices.Add(1)
			}
		},
	})

	h.auth = NewAuth(api.NewAuthService(client), h.sessions, zap.NewNop())
	h.events = NewEvents(
		api.NewEventService(client),
		api.NewParticipantService(client),
		api.NewAssignmentService(client),
		h.auth,
		zap.NewNop(),
	)
	h.admin = NewAdmin(api.NewAdminService(client))
	h.health = api.NewHealthService(client)
	return h
}

// seedOrganizer seeds an organizer account with one owned event and signs
// the harness in as that organizer.
func (h *harness) seedOrganizer(t *testing.T) model.Event {
	t.Helper()

	owner := model.User{
		ID:    "user-owner",
		Email: "owner@example.com",
		Name:  "Olive Owner",
		Role:  model.RoleOrganizer,
	}
	h.backend.SeedUser(owner, "s3cret")
	event := model.Event{
		ID:      "evt-1",
		OwnerID: owner.ID,
		Name:    "Office Exchange",
		Participants: []model.Participant{
			{ID: "p-1", EventID: "evt-1", Name: "Alice", Email: "alice@example.com"},
			{ID: "p-2", EventID: "evt-1", Name: "Bob", Email: "bob@example.com"},
		},
		CreatedAt: "2026-11-01T10:00:00Z",
	}
	h.backend.SeedEvent(event)

	h.login(t, owner.Email, "s3cret")
	return event
}

func (h *harness) login(t *testing.T, email, password string) {
	t.Helper()
	_, err := h.auth.Login(context.Background(), api.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
}
