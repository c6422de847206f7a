package model

// Role identifies a user's position in the permission hierarchy.
type Role string

const (
	// RoleParticipant is the base role for invited gift-exchange members.
	RoleParticipant Role = "participant"
	// RoleOrganizer can create and manage events they own.
	RoleOrganizer Role = "organizer"
	// RoleAdmin can manage every event and user in the system.
	RoleAdmin Role = "admin"
)

// roleLevel orders roles so that higher roles subsume lower ones.
var roleLevel = map[Role]int{
	RoleParticipant: 1,
	RoleOrganizer:   2,
	RoleAdmin:       3,
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	_, ok := roleLevel[r]
	return ok
}

// AtLeast reports whether the role sits at or above the required role in
// the hierarchy. Unknown roles never satisfy any requirement.
func (r Role) AtLeast(required Role) bool {
	return roleLevel[r] >= roleLevel[required] && roleLevel[required] > 0
}

// User represents an authenticated user as returned by the backend.
// Fields are server-truth; the client never mutates them locally.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}
