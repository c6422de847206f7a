package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePermissionSets(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want []Permission
	}{
		{
			name: "participant",
			role: RoleParticipant,
			want: []Permission{
				PermReadOwnProfile,
				PermReadOwnAssignment,
				PermReadEvent,
			},
		},
		{
			name: "organizer",
			role: RoleOrganizer,
			want: []Permission{
				PermReadOwnProfile,
				PermReadOwnAssignment,
				PermReadEvent,
				PermUpdateOwnProfile,
				PermCreateEvent,
				PermUpdateEvent,
				PermDeleteEvent,
				PermManageParticipants,
				PermManageRules,
				PermGenerateAssignments,
				PermReadAssignments,
			},
		},
		{
			name: "admin",
			role: RoleAdmin,
			want: []Permission{
				PermReadOwnProfile,
				PermReadOwnAssignment,
				PermReadEvent,
				PermUpdateOwnProfile,
				PermCreateEvent,
				PermUpdateEvent,
				PermDeleteEvent,
				PermManageParticipants,
				PermManageRules,
				PermGenerateAssignments,
				PermReadAssignments,
				PermManageAllEvents,
				PermManageUsers,
				PermViewAdminDashboard,
				PermViewAllEvents,
				PermViewAllUsers,
				PermSystemAdmin,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Permissions())
		})
	}
}

func TestRolePermissionsAreStrictSupersets(t *testing.T) {
	participant := RoleParticipant.Permissions()
	organizer := RoleOrganizer.Permissions()
	admin := RoleAdmin.Permissions()

	require.True(t, RoleOrganizer.HasAll(participant...))
	require.True(t, RoleAdmin.HasAll(organizer...))
	assert.Greater(t, len(organizer), len(participant))
	assert.Greater(t, len(admin), len(organizer))
}

func TestRoleHas(t *testing.T) {
	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"participant reads own assignment", RoleParticipant, PermReadOwnAssignment, true},
		{"participant cannot create events", RoleParticipant, PermCreateEvent, false},
		{"organizer creates events", RoleOrganizer, PermCreateEvent, true},
		{"organizer keeps read_own_assignment", RoleOrganizer, PermReadOwnAssignment, true},
		{"organizer is not system admin", RoleOrganizer, PermManageAllEvents, false},
		{"admin manages all events", RoleAdmin, PermManageAllEvents, true},
		{"unknown role has nothing", Role("ghost"), PermReadOwnProfile, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Has(tt.perm))
		})
	}
}

func TestRoleHasAnyHasAll(t *testing.T) {
	assert.True(t, RoleParticipant.HasAny(PermCreateEvent, PermReadEvent))
	assert.False(t, RoleParticipant.HasAny(PermCreateEvent, PermManageUsers))

	assert.True(t, RoleOrganizer.HasAll(PermCreateEvent, PermManageRules))
	assert.False(t, RoleOrganizer.HasAll(PermCreateEvent, PermManageUsers))

	// Vacuous checks succeed for any valid role.
	assert.True(t, RoleParticipant.HasAll())
	assert.False(t, RoleParticipant.HasAny())
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := RoleParticipant.Permissions()
	perms[0] = Permission("mutated")
	assert.Equal(t, PermReadOwnProfile, RoleParticipant.Permissions()[0])
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"participant meets participant", RoleParticipant, RoleParticipant, true},
		{"participant below organizer", RoleParticipant, RoleOrganizer, false},
		{"organizer meets participant", RoleOrganizer, RoleParticipant, true},
		{"admin meets organizer", RoleAdmin, RoleOrganizer, true},
		{"unknown role meets nothing", Role("ghost"), RoleParticipant, false},
		{"unknown requirement never met", RoleAdmin, Role("ghost"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.required))
		})
	}
}
