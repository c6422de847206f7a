package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"santactl/internal/model"
)

// Storage keys mirror the original client's localStorage entries.
const (
	tokenKey = "authToken"
	userKey  = "user"
)

// Manager owns the client session: the bearer token and the cached user
// profile. It moves between exactly two states, anonymous and
// authenticated, and persists transitions to the durable store.
type Manager struct {
	store  Store
	logger *zap.Logger

	mu    sync.Mutex
	token string
	user  *model.User
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// Load restores the session from durable storage without a network call.
// Sessions whose token has already expired, and corrupted user entries,
// are discarded so the manager comes up anonymous.
func (m *Manager) Load(ctx context.Context) error {
	tokenBytes, err := m.store.Get(ctx, tokenKey)
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}
	userBytes, err := m.store.Get(ctx, userKey)
	if err != nil {
		return fmt.Errorf("load session user: %w", err)
	}

	token := string(tokenBytes)
	if token == "" || userBytes == nil {
		return nil
	}

	var user model.User
	if err := json.Unmarshal(userBytes, &user); err != nil {
		m.logger.Warn("discarding corrupted session user entry", zap.Error(err))
		return m.Logout(ctx)
	}

	if expired(token) {
		m.logger.Info("stored session token expired, starting anonymous")
		return m.Logout(ctx)
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.mu.Unlock()
	return nil
}

// Establish transitions to the authenticated state and persists the
// session.
func (m *Manager) Establish(ctx context.Context, token string, user *model.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	if err := m.store.Set(ctx, tokenKey, []byte(token)); err != nil {
		return err
	}
	if err := m.store.Set(ctx, userKey, userBytes); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	return nil
}

// Logout transitions to the anonymous state and removes the persisted
// session. Safe to call when already anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, tokenKey); err != nil {
		return err
	}
	return m.store.Delete(ctx, userKey)
}

// Invalidate clears the session and reports whether this call performed
// the authenticated-to-anonymous transition. Concurrent invalidations
// (e.g. several requests all observing 401) yield true exactly once, so
// the host can react, such as prompting for login, a single time.
func (m *Manager) Invalidate(ctx context.Context) bool {
	m.mu.Lock()
	wasAuthenticated := m.token != "" && m.user != nil
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, tokenKey); err != nil {
		m.logger.Warn("clear persisted token", zap.Error(err))
	}
	if err := m.store.Delete(ctx, userKey); err != nil {
		m.logger.Warn("clear persisted user", zap.Error(err))
	}
	return wasAuthenticated
}

// Token returns the current bearer token, or "" when anonymous. Implements
// the transport token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the cached user profile, or nil when anonymous.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated holds iff both token and user are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil
}

// expired checks the token's exp claim without verifying the signature;
// the client never holds the signing key. Tokens that do not parse as JWTs
// are kept and left for the backend to judge.
func expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
