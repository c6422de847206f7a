// Package store holds the client-side state caches that back the
// presentation layer: the authenticated session with its derived
// permissions, the event collection, and the admin views.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"santactl/internal/api"
	"santactl/internal/model"
	"santactl/internal/session"
)

// Auth tracks the authenticated user and exposes permission checks
// derived from the server-truth role. Checks here gate the UI only; the
// backend remains the authority.
type Auth struct {
	auth     api.AuthService
	sessions *session.Manager
	logger   *zap.Logger

	mu          sync.Mutex
	pendingUser *model.User
}

// NewAuth creates the auth store.
func NewAuth(auth api.AuthService, sessions *session.Manager, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{auth: auth, sessions: sessions, logger: logger}
}

// Initialize restores the persisted session, if any, without a network
// call.
func (a *Auth) Initialize(ctx context.Context) error {
	return a.sessions.Load(ctx)
}

// Register starts account creation. The returned user is held as pending
// until VerifyOTP completes the flow.
func (a *Auth) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	res, err := a.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	user := res.User
	a.pendingUser = &user
	a.mu.Unlock()
	return res, nil
}

// VerifyOTP completes registration and establishes the session. The
// pending registration user takes precedence over the response user, as
// the backend echoes a minimal profile here.
func (a *Auth) VerifyOTP(ctx context.Context, req api.VerifyOTPRequest) (*api.VerifyOTPResponse, error) {
	res, err := a.auth.VerifyOTP(ctx, req)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	user := res.User
	if a.pendingUser != nil {
		user = *a.pendingUser
	}
	a.pendingUser = nil
	a.mu.Unlock()

	if err := a.sessions.Establish(ctx, res.Token, &user); err != nil {
		return nil, err
	}
	return res, nil
}

// Login authenticates and establishes the session.
func (a *Auth) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	res, err := a.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	user := res.User
	if err := a.sessions.Establish(ctx, res.Token, &user); err != nil {
		return nil, err
	}
	a.logger.Info("session established", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return res, nil
}

// Verify completes an invitation signup and establishes the session.
func (a *Auth) Verify(ctx context.Context, req api.VerifyRequest) (*api.VerifyResponse, error) {
	res, err := a.auth.Verify(ctx, req)
	if err != nil {
		return nil, err
	}
	user := res.User
	if err := a.sessions.Establish(ctx, res.Token, &user); err != nil {
		return nil, err
	}
	return res, nil
}

// Invite asks the backend to invite a participant to an event.
func (a *Auth) Invite(ctx context.Context, req api.InviteRequest) (*api.InviteResponse, error) {
	return a.auth.Invite(ctx, req)
}

// VerifyToken asks the backend whether the current token is still valid.
func (a *Auth) VerifyToken(ctx context.Context) (*api.VerifyTokenResponse, error) {
	return a.auth.VerifyToken(ctx)
}

// Logout clears the session and any pending registration.
func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.pendingUser = nil
	a.mu.Unlock()
	return a.sessions.Logout(ctx)
}

// IsAuthenticated reports whether a complete session is present.
func (a *Auth) IsAuthenticated() bool {
	return a.sessions.IsAuthenticated()
}

// User returns the current user, or nil when anonymous.
func (a *Auth) User() *model.User {
	return a.sessions.User()
}

// Permissions returns the permission set derived from the current user's
// role; empty when anonymous.
func (a *Auth) Permissions() []model.Permission {
	user := a.sessions.User()
	if user == nil {
		return nil
	}
	return user.Role.Permissions()
}

// HasPermission reports whether the current user holds the permission.
func (a *Auth) HasPermission(perm model.Permission) bool {
	user := a.sessions.User()
	return user != nil && user.Role.Has(perm)
}

// HasAnyPermission reports whether the current user holds at least one of
// the permissions.
func (a *Auth) HasAnyPermission(perms ...model.Permission) bool {
	user := a.sessions.User()
	return user != nil && user.Role.HasAny(perms...)
}

// HasAllPermissions reports whether the current user holds every one of
// the permissions.
func (a *Auth) HasAllPermissions(perms ...model.Permission) bool {
	user := a.sessions.User()
	return user != nil && user.Role.HasAll(perms...)
}

// HasRole reports whether the current user's role sits at or above the
// required role in the hierarchy.
func (a *Auth) HasRole(required model.Role) bool {
	user := a.sessions.User()
	return user != nil && user.Role.AtLeast(required)
}

// CanAccessEvent reports whether the current user may open the event:
// admins always, owners always, enrolled participants by email.
func (a *Auth) CanAccessEvent(event *model.Event) bool {
	user := a.sessions.User()
	if user == nil || event == nil {
		return false
	}
	if user.Role == model.RoleAdmin || event.OwnerID == user.ID {
		return true
	}
	return event.HasParticipant(user.Email)
}
