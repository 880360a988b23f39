package client

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/inkwell-social/inkwell-cli/pkg/config"
	"github.com/inkwell-social/inkwell-cli/pkg/credentials"
)

func initTestConfig(t *testing.T) {
	t.Helper()
	if err := config.Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
	// Force a fresh client for each test
	httpClient = nil
}

func TestInit_ConfiguresClient(t *testing.T) {
	initTestConfig(t)

	c := GetClient()
	if c == nil {
		t.Fatal("GetClient returned nil")
	}
	if c.BaseURL != config.GetString("api.base_url") {
		t.Errorf("Base URL mismatch: got %s", c.BaseURL)
	}
	if c.GetClient().Jar == nil {
		t.Error("Client should carry a cookie jar for the session")
	}
}

func TestSessionCookiePersistence(t *testing.T) {
	initTestConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "abc", Path: "/"})
	}))
	defer srv.Close()

	Init()
	SetBaseURL(srv.URL)

	if _, err := GetClient().R().Get("/"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	// Persist the jar, then verify a fresh client restores the cookie
	if err := SaveSession(&credentials.Credentials{UserID: "u1"}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	stored, err := credentials.Load()
	if err != nil || stored == nil {
		t.Fatalf("Credentials not stored: %v", err)
	}
	if !stored.HasSession() {
		t.Fatalf("Stored credentials missing session cookie: %+v", stored.Cookies)
	}

	// restoreSession seeds the jar from disk for the configured base URL;
	// point the config at the test server so the domain matches
	if err := config.SetString("api.base_url", srv.URL); err != nil {
		t.Fatalf("Failed to set base URL: %v", err)
	}
	httpClient = nil
	Init()

	u, _ := url.Parse(srv.URL)
	cookies := GetClient().GetClient().Jar.Cookies(u)
	found := false
	for _, ck := range cookies {
		if ck.Name == "SESSION" && ck.Value == "abc" {
			found = true
		}
	}
	if !found {
		t.Errorf("Session cookie not restored into fresh jar: %v", cookies)
	}
}

func TestClearSession(t *testing.T) {
	initTestConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "abc", Path: "/"})
	}))
	defer srv.Close()

	Init()
	SetBaseURL(srv.URL)
	if _, err := GetClient().R().Get("/"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	ClearSession()

	u, _ := url.Parse(srv.URL)
	if jar := GetClient().GetClient().Jar; jar != nil && len(jar.Cookies(u)) != 0 {
		t.Errorf("ClearSession should drop all cookies, found %v", jar.Cookies(u))
	}
}
