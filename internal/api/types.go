// Package api provides typed facades over the backend's REST endpoints.
// The facades are stateless: fixed path construction and JSON codec work
// only, with retry, deduplication, and session handling delegated to the
// transport layer.
package api

import "santactl/internal/model"

// RegisterRequest starts account creation; the backend answers with an
// OTP challenge.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse carries the unverified user pending OTP confirmation.
type RegisterResponse struct {
	User                 model.User `json:"user"`
	RequiresVerification bool       `json:"requires_verification"`
	Message              string     `json:"message"`
}

// VerifyOTPRequest confirms a registration with the emailed code.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTPResponse establishes the session after OTP confirmation.
type VerifyOTPResponse struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	Message string     `json:"message"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse establishes the session.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// InviteRequest asks the backend to invite a participant to an event.
type InviteRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	EventID string `json:"eventId"`
}

// InviteResponse carries the link the invitee completes signup with.
type InviteResponse struct {
	InvitationLink string `json:"invitationLink"`
}

// VerifyRequest completes an invitation signup.
type VerifyRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyResponse establishes the session after invitation verification.
type VerifyResponse struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	Message string     `json:"message"`
}

// VerifyTokenResponse reports whether the current bearer token is still
// accepted by the backend.
type VerifyTokenResponse struct {
	Valid bool `json:"valid"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

// CreateEventRequest creates a named event owned by the caller.
type CreateEventRequest struct {
	Name string `json:"name"`
}

// UpdateEventRequest renames an event.
type UpdateEventRequest struct {
	Name string `json:"name"`
}

// CreateParticipantRequest enrolls a participant into an event.
type CreateParticipantRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

// GenerateAssignmentsResponse reports the outcome of backend assignment
// generation.
type GenerateAssignmentsResponse struct {
	Assignments []model.Assignment `json:"assignments"`
	EmailsSent  int                `json:"emailsSent"`
	Message     string             `json:"message"`
}

// MyAssignmentResponse is the caller's own giver-to-receiver pairing.
type MyAssignmentResponse struct {
	EventID       string `json:"eventId"`
	EventName     string `json:"eventName"`
	ReceiverName  string `json:"receiverName"`
	ReceiverEmail string `json:"receiverEmail"`
}

// MyInfoResponse describes the caller's standing within one event.
type MyInfoResponse struct {
	Event struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		CreatedAt  string `json:"createdAt"`
		AssignedAt string `json:"assignedAt,omitempty"`
	} `json:"event"`
	MyRole model.Role `json:"myRole"`
	MyInfo struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"myInfo"`
}

// HealthResponse is the backend liveness/readiness report.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}
