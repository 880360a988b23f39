package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/inkwell-social/inkwell-cli/pkg/api"
	"github.com/inkwell-social/inkwell-cli/pkg/config"
)

func initTestConfig(t *testing.T) {
	t.Helper()
	if err := config.Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
}

func TestCheckAuth_ReadinessGating(t *testing.T) {
	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		return &api.User{ID: "u1", Name: "Ada"}, nil
	}

	if m.IsReady() {
		t.Fatal("Manager should not be ready before the first probe")
	}
	if m.CheckState() != AuthCheckNotStarted {
		t.Errorf("Initial check state should be not_started, got %v", m.CheckState())
	}

	m.CheckAuth(context.Background())

	if !m.IsReady() {
		t.Error("Manager should be ready after the probe resolves")
	}
	if m.User() == nil || m.User().ID != "u1" {
		t.Errorf("User should be set from probe, got %+v", m.User())
	}
	if m.LastError() != nil {
		t.Errorf("LastError should be nil on success, got %v", m.LastError())
	}
}

func TestCheckAuth_ConfirmedLoggedOut(t *testing.T) {
	// A nil user with nil error from the probe is the server confirming
	// there is no session (401/403/empty body)
	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		return nil, nil
	}

	m.CheckAuth(context.Background())

	if !m.IsReady() {
		t.Error("Manager should be ready even when logged out")
	}
	if m.User() != nil {
		t.Errorf("User should be nil when logged out, got %+v", m.User())
	}
	if m.LastError() != nil {
		t.Errorf("Confirmed logged-out should not record an error, got %v", m.LastError())
	}
}

func TestCheckAuth_ProbeFailureStillCompletes(t *testing.T) {
	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		return nil, &api.APIError{Code: "server_error", Message: "boom", StatusCode: 500}
	}

	m.CheckAuth(context.Background())

	if !m.IsReady() {
		t.Error("Probe failure must still complete the auth check")
	}
	if m.User() != nil {
		t.Error("User should be nil after a failed probe")
	}
	lastErr := m.LastError()
	if lastErr == nil {
		t.Fatal("Probe failure should be preserved in LastError")
	}
	if lastErr.StatusCode != 500 {
		t.Errorf("LastError status should be 500, got %d", lastErr.StatusCode)
	}
}

func TestCheckAuth_NetworkErrorWrapped(t *testing.T) {
	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		return nil, fmt.Errorf("dial tcp: connection refused")
	}

	m.CheckAuth(context.Background())

	if m.User() != nil {
		t.Error("Network failure should read as logged out")
	}
	if m.LastError() == nil || m.LastError().Code != "network_error" {
		t.Errorf("Network failure should be preserved distinctly, got %v", m.LastError())
	}
}

func TestCheckAuth_SuccessClearsLastError(t *testing.T) {
	m := NewManager()
	failing := true
	m.probe = func(ctx context.Context) (*api.User, error) {
		if failing {
			return nil, &api.APIError{Code: "server_error", StatusCode: 500}
		}
		return &api.User{ID: "u1"}, nil
	}

	m.CheckAuth(context.Background())
	if m.LastError() == nil {
		t.Fatal("Expected error from first probe")
	}

	failing = false
	m.CheckAuth(context.Background())
	if m.LastError() != nil {
		t.Errorf("Successful probe should clear LastError, got %v", m.LastError())
	}
	if m.User() == nil {
		t.Error("Successful probe should set the user")
	}
}

func TestCheckAuth_ReadyTransitionsOnce(t *testing.T) {
	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		return &api.User{ID: "u1"}, nil
	}

	m.CheckAuth(context.Background())
	if !m.IsReady() {
		t.Fatal("Should be ready after first probe")
	}

	// A second probe never reverts readiness
	m.CheckAuth(context.Background())
	if !m.IsReady() {
		t.Error("Readiness must not revert on subsequent probes")
	}
}

func TestLogout_FailOpen(t *testing.T) {
	initTestConfig(t)

	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		return &api.User{ID: "u1"}, nil
	}
	m.signOut = func(ctx context.Context) error {
		return fmt.Errorf("backend unreachable")
	}

	m.CheckAuth(context.Background())
	if m.User() == nil {
		t.Fatal("Setup: expected a logged-in user")
	}

	m.Logout(context.Background())

	if m.User() != nil {
		t.Error("Logout must clear the user even when the backend request fails")
	}
}

func TestLogout_InvalidatesInFlightProbe(t *testing.T) {
	initTestConfig(t)

	probeStarted := make(chan struct{})
	release := make(chan struct{})

	m := NewManager()
	m.probe = func(ctx context.Context) (*api.User, error) {
		close(probeStarted)
		<-release
		return &api.User{ID: "stale-user"}, nil
	}
	m.signOut = func(ctx context.Context) error { return nil }

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.CheckAuth(context.Background())
	}()

	<-probeStarted
	m.Logout(context.Background())
	close(release)
	wg.Wait()

	if m.User() != nil {
		t.Errorf("A probe response for a logged-out identity must be discarded, got %+v", m.User())
	}
	if !m.IsReady() {
		t.Error("Discarding a stale probe must still complete the auth check")
	}
}

func TestLogin_PersistsRedirectPathAndNavigates(t *testing.T) {
	initTestConfig(t)

	var navigatedTo string
	m := NewManager()
	m.navigate = func(url string) error {
		navigatedTo = url
		return nil
	}

	if err := m.Login(ProviderGitHub, "/posts/42"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if got := config.GetString(config.RedirectPathKey); got != "/posts/42" {
		t.Errorf("Redirect path not persisted: got %q", got)
	}

	if !strings.Contains(navigatedTo, "/oauth2/authorization/github") {
		t.Errorf("Navigation URL missing provider endpoint: %s", navigatedTo)
	}
	if !strings.Contains(navigatedTo, "?t=") {
		t.Errorf("Navigation URL missing cache-busting value: %s", navigatedTo)
	}
}

func TestLogin_CacheBustingValueUnique(t *testing.T) {
	initTestConfig(t)

	var urls []string
	m := NewManager()
	m.navigate = func(url string) error {
		urls = append(urls, url)
		return nil
	}

	for i := 0; i < 3; i++ {
		if err := m.Login(ProviderGoogle, "/"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	for _, u := range urls {
		if seen[u] {
			t.Errorf("Repeated login produced an identical URL: %s", u)
		}
		seen[u] = true
	}
}

func TestConsumeRedirectPath(t *testing.T) {
	initTestConfig(t)

	if err := config.SetString(config.RedirectPathKey, "/drafts"); err != nil {
		t.Fatalf("Failed to seed redirect path: %v", err)
	}

	if got := ConsumeRedirectPath(); got != "/drafts" {
		t.Errorf("ConsumeRedirectPath = %q, want /drafts", got)
	}
	if got := ConsumeRedirectPath(); got != "" {
		t.Errorf("Redirect path should be cleared after consumption, got %q", got)
	}
}
