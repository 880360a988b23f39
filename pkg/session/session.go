package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/inkwell-social/inkwell-cli/pkg/api"
	"github.com/inkwell-social/inkwell-cli/pkg/browser"
	"github.com/inkwell-social/inkwell-cli/pkg/client"
	"github.com/inkwell-social/inkwell-cli/pkg/config"
	"github.com/inkwell-social/inkwell-cli/pkg/credentials"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
)

// AuthCheckState tracks whether the initial identity probe has completed
type AuthCheckState int

const (
	AuthCheckNotStarted AuthCheckState = iota
	AuthCheckInProgress
	AuthCheckComplete
)

func (s AuthCheckState) String() string {
	switch s {
	case AuthCheckNotStarted:
		return "not_started"
	case AuthCheckInProgress:
		return "in_progress"
	case AuthCheckComplete:
		return "complete"
	}
	return "unknown"
}

// Manager is the single source of truth for the current user identity and
// the redirect-based login/logout protocol. A nil user is only meaningful as
// "definitely logged out" once IsReady reports true.
type Manager struct {
	mu         sync.RWMutex
	user       *api.User
	checkState AuthCheckState
	lastErr    *api.APIError

	// identityGen is bumped on logout so a probe issued for the old
	// identity cannot resurrect it with a late response
	identityGen uint64

	// seams for tests
	probe    func(ctx context.Context) (*api.User, error)
	signOut  func(ctx context.Context) error
	navigate func(url string) error
}

// NewManager creates a session manager backed by the platform API
func NewManager() *Manager {
	return &Manager{
		probe:    api.GetProfile,
		signOut:  api.Logout,
		navigate: browser.Open,
	}
}

// CheckAuth sends the credentialed identity probe and folds the outcome into
// state. A confirmed logged-out response (401/403/empty body) clears the user
// with no error recorded; any other failure also clears the user but keeps
// the error in LastError so callers can tell "logged out" from "could not
// determine". The check state always reaches complete, success or not.
//
// Safe to call repeatedly; concurrent probes resolve last-response-wins.
func (m *Manager) CheckAuth(ctx context.Context) {
	m.mu.Lock()
	if m.checkState == AuthCheckNotStarted {
		m.checkState = AuthCheckInProgress
	}
	gen := m.identityGen
	m.mu.Unlock()

	user, err := m.probe(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	// The probe must never leave consumers hanging in a loading state
	m.checkState = AuthCheckComplete

	if gen != m.identityGen {
		// Logged out while the probe was in flight; the response belongs
		// to a dead identity
		logger.Debug("Discarding stale identity probe response")
		return
	}

	if err != nil {
		logger.Warn("Identity probe failed", "error", err)
		m.user = nil
		m.lastErr = api.WrapError(err)
		return
	}

	m.user = user
	m.lastErr = nil
}

// Login persists returnPath under the well-known redirect key, then performs
// the full navigation to the provider's authorization endpoint. The query is
// tagged with a one-time value so repeated attempts are never served stale.
func (m *Manager) Login(provider Provider, returnPath string) error {
	if returnPath == "" {
		returnPath = "/"
	}
	if err := config.SetString(config.RedirectPathKey, returnPath); err != nil {
		return err
	}

	authURL := config.GetString("api.base_url") + provider.AuthorizationPath() + "?t=" + uuid.NewString()

	logger.Info("Starting provider login", "provider", provider.String())
	return m.navigate(authURL)
}

// Logout signs out of the backend and clears local session state. Failure to
// reach the backend does not keep the client signed in: the user, cookies,
// and stored credentials are cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.signOut(ctx); err != nil {
		logger.Warn("Logout request failed, clearing local session anyway", "error", err)
	}

	m.mu.Lock()
	m.user = nil
	m.lastErr = nil
	m.identityGen++
	m.mu.Unlock()

	client.ClearSession()
	if err := credentials.Delete(); err != nil {
		logger.Warn("Failed to delete stored credentials", "error", err)
	}
	_ = config.SetString(config.RedirectPathKey, "")
}

// IsReady reports whether the first identity probe has completed. Route-guard
// style decisions must wait for this before trusting a nil user.
func (m *Manager) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkState == AuthCheckComplete
}

// User returns the current identity, or nil when unauthenticated
func (m *Manager) User() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// LastError returns the most recent probe failure, or nil
func (m *Manager) LastError() *api.APIError {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// CheckState returns the probe lifecycle state
func (m *Manager) CheckState() AuthCheckState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkState
}

// ConsumeRedirectPath reads and clears the persisted post-login redirect path
func ConsumeRedirectPath() string {
	path := config.GetString(config.RedirectPathKey)
	if path != "" {
		_ = config.SetString(config.RedirectPathKey, "")
	}
	return path
}
