package model

// Permission names a capability that gates client-side feature access.
// Checks against these are UX gating only; the backend enforces the real
// access control.
type Permission string

const (
	PermReadOwnProfile      Permission = "read_own_profile"
	PermReadOwnAssignment   Permission = "read_own_assignment"
	PermReadEvent           Permission = "read_event"
	PermUpdateOwnProfile    Permission = "update_own_profile"
	PermCreateEvent         Permission = "create_event"
	PermUpdateEvent         Permission = "update_event"
	PermDeleteEvent         Permission = "delete_event"
	PermManageParticipants  Permission = "manage_participants"
	PermManageRules         Permission = "manage_rules"
	PermGenerateAssignments Permission = "generate_assignments"
	PermReadAssignments     Permission = "read_assignments"
	PermManageAllEvents     Permission = "manage_all_events"
	PermManageUsers         Permission = "manage_users"
	PermViewAdminDashboard  Permission = "view_admin_dashboard"
	PermViewAllEvents       Permission = "view_all_events"
	PermViewAllUsers        Permission = "view_all_users"
	PermSystemAdmin         Permission = "system_admin"
)

// participantPermissions is the base set every participant holds.
var participantPermissions = []Permission{
	PermReadOwnProfile,
	PermReadOwnAssignment,
	PermReadEvent,
}

// organizerPermissions extends the participant set with event management.
var organizerPermissions = append(participantPermissions[:len(participantPermissions):len(participantPermissions)],
	PermUpdateOwnProfile,
	PermCreateEvent,
	PermUpdateEvent,
	PermDeleteEvent,
	PermManageParticipants,
	PermManageRules,
	PermGenerateAssignments,
	PermReadAssignments,
)

// adminPermissions extends the organizer set with system-wide management.
var adminPermissions = append(organizerPermissions[:len(organizerPermissions):len(organizerPermissions)],
	PermManageAllEvents,
	PermManageUsers,
	PermViewAdminDashboard,
	PermViewAllEvents,
	PermViewAllUsers,
	PermSystemAdmin,
)

// rolePermissions maps every role variant to its permission set. Each set
// is a strict superset of the one below it in the hierarchy.
var rolePermissions = map[Role][]Permission{
	RoleParticipant: participantPermissions,
	RoleOrganizer:   organizerPermissions,
	RoleAdmin:       adminPermissions,
}

// Permissions returns the permission set for the role. Unknown roles get
// an empty set.
func (r Role) Permissions() []Permission {
	perms, ok := rolePermissions[r]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Has reports whether the role grants the given permission.
func (r Role) Has(perm Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAny reports whether the role grants at least one of the permissions.
func (r Role) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if r.Has(p) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role grants every one of the permissions.
func (r Role) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !r.Has(p) {
			return false
		}
	}
	return true
}
