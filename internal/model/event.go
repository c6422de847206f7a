package model

// Event represents a gift-exchange event with its participants and rules.
// The mixed json tag casing reproduces the backend wire format exactly.
type Event struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"owner_id"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	Rules        Rules         `json:"rules"`
	Assignments  []Assignment  `json:"assignments,omitempty"`
	CreatedAt    string        `json:"createdAt"`
	AssignedAt   string        `json:"assignedAt,omitempty"`
}

// Rules configures the backend's assignment generator for an event.
type Rules struct {
	AvoidSameGroup           *bool `json:"avoidSameGroup,omitempty"`
	MaxShuffleAttempts       *int  `json:"maxShuffleAttempts,omitempty"`
	AvoidPreviousAssignments *bool `json:"avoidPreviousAssignments,omitempty"`
}

// HasAssignments reports whether the backend has generated assignments for
// the event.
func (e *Event) HasAssignments() bool {
	return e.AssignedAt != ""
}

// HasParticipant reports whether a user with the given email is enrolled.
func (e *Event) HasParticipant(email string) bool {
	for _, p := range e.Participants {
		if p.Email == email {
			return true
		}
	}
	return false
}

// Capabilities holds UI-facing flags derived from a (user, event) pair.
// They are recomputed on every fetch and never persisted; the backend
// remains the actual authority.
type Capabilities struct {
	CanEdit                bool
	CanDelete              bool
	CanManageParticipants  bool
	CanGenerateAssignments bool
	CanViewAssignments     bool
	IsOwner                bool
	HasAssignments         bool
	ParticipantCount       int
}

// CapabilitiesFor derives the capability flags the given user has on the
// event. A nil user yields no capabilities.
func (e *Event) CapabilitiesFor(user *User) Capabilities {
	if user == nil {
		return Capabilities{ParticipantCount: len(e.Participants)}
	}

	isOwner := e.OwnerID == user.ID
	isAdmin := user.Role == RoleAdmin
	manage := isOwner || isAdmin

	return Capabilities{
		CanEdit:                manage,
		CanDelete:              manage,
		CanManageParticipants:  manage,
		CanGenerateAssignments: manage,
		CanViewAssignments:     manage || e.HasParticipant(user.Email),
		IsOwner:                isOwner,
		HasAssignments:         e.HasAssignments(),
		ParticipantCount:       len(e.Participants),
	}
}
