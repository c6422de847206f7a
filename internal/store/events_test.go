package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santactl/internal/api"
	"santactl/internal/model"
)

func TestFetchEventsAnonymousClearsCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	views, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	assert.Nil(t, views)
	assert.False(t, h.events.HasEvents())
	assert.Equal(t, 0, h.backend.Requests("GET /events"))
}

func TestFetchEventsEnrichesWithCapabilities(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedOrganizer(t)

	views, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, "Office Exchange", view.Name)
	assert.True(t, view.Caps.IsOwner)
	assert.True(t, view.Caps.CanEdit)
	assert.True(t, view.Caps.CanGenerateAssignments)
	assert.False(t, view.Caps.HasAssignments)
	assert.Equal(t, 2, view.Caps.ParticipantCount)

	assert.Equal(t, 1, h.events.Count())
	assert.True(t, h.events.HasEvents())
}

func TestFetchEventsAsEnrolledParticipant(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedOrganizer(t)

	h.backend.SeedUser(model.User{
		ID: "user-alice", Email: "alice@example.com", Name: "Alice", Role: model.RoleParticipant,
	}, "pw")
	h.login(t, "alice@example.com", "pw")

	views, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].Caps.CanEdit)
	assert.True(t, views[0].Caps.CanViewAssignments)

	filtered := h.events.UserEvents()
	require.Len(t, filtered, 1)
}

func TestCreateEventAppendsToCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedOrganizer(t)

	_, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, h.events.Count())

	view, err := h.events.CreateEvent(ctx, "Family Exchange")
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.True(t, view.Caps.IsOwner)

	// Appended locally, no refetch of the collection.
	assert.Equal(t, 2, h.events.Count())
	assert.Equal(t, 1, h.backend.Requests("GET /events"))
}

func TestUpdateEventPatchesCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	_, err = h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, h.events.UpdateEvent(ctx, event.ID, "Renamed"))

	assert.Equal(t, "Renamed", h.events.Events()[0].Name)
	assert.Equal(t, "Renamed", h.events.Current().Name)
	// The rename round trip is the only extra request; no refetch.
	assert.Equal(t, 1, h.backend.Requests("GET /events/"+event.ID))
}

func TestDeleteEventDropsFromCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	_, err = h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, h.events.DeleteEvent(ctx, event.ID))
	assert.False(t, h.events.HasEvents())
	assert.Nil(t, h.events.Current())
}

func TestAddParticipantUpdatesCurrentOptimistically(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)

	participant, err := h.events.AddParticipant(ctx, event.ID, api.CreateParticipantRequest{
		Name: "Carol", Email: "carol@example.com", GroupID: "grp-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, participant.ID)

	current := h.events.Current()
	require.NotNil(t, current)
	assert.Len(t, current.Participants, 3)
	assert.Equal(t, 3, current.Caps.ParticipantCount)
	// Patched in place from the creation response.
	assert.Equal(t, 1, h.backend.Requests("GET /events/"+event.ID))
}

func TestUpdateParticipantPatchesCurrent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, h.events.UpdateParticipant(ctx, event.ID, "p-1", api.CreateParticipantRequest{
		Name: "Alice Updated", Email: "alice@example.com", GroupID: "grp-2",
	}))

	current := h.events.Current()
	assert.Equal(t, "Alice Updated", current.Participants[0].Name)
	assert.Equal(t, "grp-2", current.Participants[0].GroupID)
}

func TestRemoveParticipantShrinksCurrent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, h.events.RemoveParticipant(ctx, event.ID, "p-2"))

	current := h.events.Current()
	require.Len(t, current.Participants, 1)
	assert.Equal(t, "p-1", current.Participants[0].ID)
	assert.Equal(t, 1, current.Caps.ParticipantCount)
}

func TestRulesRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)

	avoid := true
	attempts := 50
	require.NoError(t, h.events.UpdateRules(ctx, event.ID, model.Rules{
		AvoidSameGroup:     &avoid,
		MaxShuffleAttempts: &attempts,
	}))

	// Cached current event carries the new rules without a refetch.
	current := h.events.Current()
	require.NotNil(t, current.Rules.AvoidSameGroup)
	assert.True(t, *current.Rules.AvoidSameGroup)

	rules, err := h.events.FetchRules(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, rules.MaxShuffleAttempts)
	assert.Equal(t, 50, *rules.MaxShuffleAttempts)
	assert.Nil(t, rules.AvoidPreviousAssignments)
}

func TestGenerateAssignmentsRefetchesEvent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvent(ctx, event.ID)
	require.NoError(t, err)
	require.False(t, h.events.Current().Caps.HasAssignments)

	res, err := h.events.GenerateAssignments(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, res.Assignments, 2)
	assert.Equal(t, 2, res.EmailsSent)

	// Generation stamps server-side fields, so the event is refetched
	// rather than patched locally.
	assert.Equal(t, 2, h.backend.Requests("GET /events/"+event.ID))
	current := h.events.Current()
	assert.True(t, current.Caps.HasAssignments)
	assert.NotEmpty(t, current.AssignedAt)
	assert.Len(t, current.Assignments, 2)
}

func TestGenerateAssignmentsNeedsTwoParticipants(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedOrganizer(t)
	h.backend.SeedEvent(model.Event{
		ID:      "evt-solo",
		OwnerID: "user-owner",
		Name:    "Lonely Exchange",
		Participants: []model.Participant{
			{ID: "p-solo", EventID: "evt-solo", Name: "Solo", Email: "solo@example.com"},
		},
	})

	_, err := h.events.GenerateAssignments(ctx, "evt-solo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two")
}

func TestMyAssignmentAfterGeneration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.GenerateAssignments(ctx, event.ID)
	require.NoError(t, err)

	h.backend.SeedUser(model.User{
		ID: "user-alice", Email: "alice@example.com", Name: "Alice", Role: model.RoleParticipant,
	}, "pw")
	h.login(t, "alice@example.com", "pw")

	res, err := h.events.MyAssignment(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.ID, res.EventID)
	assert.Equal(t, "Bob", res.ReceiverName)
	assert.Equal(t, "bob@example.com", res.ReceiverEmail)
}

func TestMyInfo(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	res, err := h.events.MyInfo(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, res.Event.ID)
	assert.Equal(t, model.RoleOrganizer, res.MyRole)
	assert.Equal(t, "owner@example.com", res.MyInfo.Email)
}

func TestFetchAssignments(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	assignments, err := h.events.FetchAssignments(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)

	_, err = h.events.GenerateAssignments(ctx, event.ID)
	require.NoError(t, err)

	assignments, err = h.events.FetchAssignments(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.NotEqual(t, assignments[0].GiverID, assignments[0].ReceiverID)
}

func TestHasAnyAssignments(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedOrganizer(t)

	_, err := h.events.FetchEvents(ctx)
	require.NoError(t, err)
	assert.False(t, h.events.HasAnyAssignments())

	_, err = h.events.GenerateAssignments(ctx, event.ID)
	require.NoError(t, err)
	_, err = h.events.FetchEvents(ctx)
	require.NoError(t, err)
	assert.True(t, h.events.HasAnyAssignments())
}

func TestAdminStoreFetches(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedOrganizer(t)
	h.backend.SeedUser(model.User{
		ID: "user-admin", Email: "admin@example.com", Name: "Ada Admin", Role: model.RoleAdmin,
	}, "pw")

	// The organizer is turned away before the handler runs.
	_, err := h.admin.FetchDashboard(ctx)
	require.Error(t, err)
	assert.Nil(t, h.admin.Dashboard())

	h.login(t, "admin@example.com", "pw")

	dashboard, err := h.admin.FetchDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Stats.TotalUsers)
	assert.Equal(t, 1, dashboard.Stats.TotalEvents)
	assert.Equal(t, 2, dashboard.Stats.TotalParticipants)
	assert.Same(t, dashboard, h.admin.Dashboard())

	events, err := h.admin.FetchAllEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, events.Total)
	assert.Same(t, events, h.admin.AllEvents())

	users, err := h.admin.FetchAllUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, users.Total)
	assert.Same(t, users, h.admin.AllUsers())
}

func TestHealthEndpoints(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	health, err := h.health.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Timestamp)

	ready, err := h.health.Ready(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)
}
