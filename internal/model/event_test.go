package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testEvent() Event {
	return Event{
		ID:      "evt-1",
		OwnerID: "user-owner",
		Name:    "Office Exchange",
		Participants: []Participant{
			{ID: "p-1", EventID: "evt-1", Name: "Alice", Email: "alice@example.com"},
			{ID: "p-2", EventID: "evt-1", Name: "Bob", Email: "bob@example.com"},
		},
		CreatedAt: "2026-11-01T10:00:00Z",
	}
}

func TestEventHasAssignments(t *testing.T) {
	event := testEvent()
	assert.False(t, event.HasAssignments())

	event.AssignedAt = "2026-12-01T10:00:00Z"
	assert.True(t, event.HasAssignments())
}

func TestEventHasParticipant(t *testing.T) {
	event := testEvent()
	assert.True(t, event.HasParticipant("alice@example.com"))
	assert.False(t, event.HasParticipant("carol@example.com"))
}

func TestCapabilitiesFor(t *testing.T) {
	assigned := testEvent()
	assigned.AssignedAt = "2026-12-01T10:00:00Z"

	tests := []struct {
		name  string
		event Event
		user  *User
		want  Capabilities
	}{
		{
			name:  "nil user has no capabilities",
			event: testEvent(),
			user:  nil,
			want:  Capabilities{ParticipantCount: 2},
		},
		{
			name:  "owner manages their event",
			event: testEvent(),
			user:  &User{ID: "user-owner", Email: "owner@example.com", Role: RoleOrganizer},
			want: Capabilities{
				CanEdit:                true,
				CanDelete:              true,
				CanManageParticipants:  true,
				CanGenerateAssignments: true,
				CanViewAssignments:     true,
				IsOwner:                true,
				ParticipantCount:       2,
			},
		},
		{
			name:  "admin manages any event without owning it",
			event: testEvent(),
			user:  &User{ID: "user-admin", Email: "admin@example.com", Role: RoleAdmin},
			want: Capabilities{
				CanEdit:                true,
				CanDelete:              true,
				CanManageParticipants:  true,
				CanGenerateAssignments: true,
				CanViewAssignments:     true,
				ParticipantCount:       2,
			},
		},
		{
			name:  "enrolled participant only views assignments",
			event: testEvent(),
			user:  &User{ID: "user-alice", Email: "alice@example.com", Role: RoleParticipant},
			want: Capabilities{
				CanViewAssignments: true,
				ParticipantCount:   2,
			},
		},
		{
			name:  "stranger gets nothing",
			event: testEvent(),
			user:  &User{ID: "user-carol", Email: "carol@example.com", Role: RoleOrganizer},
			want:  Capabilities{ParticipantCount: 2},
		},
		{
			name:  "assignment state reflected in flags",
			event: assigned,
			user:  &User{ID: "user-owner", Email: "owner@example.com", Role: RoleOrganizer},
			want: Capabilities{
				CanEdit:                true,
				CanDelete:              true,
				CanManageParticipants:  true,
				CanGenerateAssignments: true,
				CanViewAssignments:     true,
				IsOwner:                true,
				HasAssignments:         true,
				ParticipantCount:       2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.CapabilitiesFor(tt.user))
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleParticipant.Valid())
	assert.True(t, RoleOrganizer.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
