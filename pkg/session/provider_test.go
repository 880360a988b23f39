package session

import "testing"

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Provider
		wantErr  bool
	}{
		{"google", "google", ProviderGoogle, false},
		{"github", "github", ProviderGitHub, false},
		{"facebook", "facebook", ProviderFacebook, false},
		{"unknown provider", "twitter", 0, true},
		{"empty", "", 0, true},
		{"case sensitive", "Google", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProvider(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseProvider(%q) expected error, got %v", tt.input, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProvider(%q) unexpected error: %v", tt.input, err)
			}
			if p != tt.expected {
				t.Errorf("ParseProvider(%q) = %v, want %v", tt.input, p, tt.expected)
			}
		})
	}
}

func TestProviderAuthorizationPath(t *testing.T) {
	tests := []struct {
		provider Provider
		expected string
	}{
		{ProviderGoogle, "/oauth2/authorization/google"},
		{ProviderGitHub, "/oauth2/authorization/github"},
		{ProviderFacebook, "/oauth2/authorization/facebook"},
	}

	for _, tt := range tests {
		if got := tt.provider.AuthorizationPath(); got != tt.expected {
			t.Errorf("AuthorizationPath(%v) = %q, want %q", tt.provider, got, tt.expected)
		}
	}
}

func TestProviderString(t *testing.T) {
	if ProviderGoogle.String() != "google" || ProviderGitHub.String() != "github" || ProviderFacebook.String() != "facebook" {
		t.Error("Provider names do not round-trip")
	}
	if Provider(99).String() != "unknown" {
		t.Error("Out-of-range provider should stringify as unknown")
	}
}
