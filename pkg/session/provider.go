package session

import "fmt"

// Provider is the closed set of OAuth providers the platform supports.
// Unknown provider names are rejected at parse time rather than at request
// time.
type Provider int

const (
	ProviderGoogle Provider = iota
	ProviderGitHub
	ProviderFacebook
)

func (p Provider) String() string {
	switch p {
	case ProviderGoogle:
		return "google"
	case ProviderGitHub:
		return "github"
	case ProviderFacebook:
		return "facebook"
	}
	return "unknown"
}

// AuthorizationPath returns the server's authorization endpoint for the
// provider
func (p Provider) AuthorizationPath() string {
	return "/oauth2/authorization/" + p.String()
}

// ParseProvider maps a provider name to its Provider value
func ParseProvider(name string) (Provider, error) {
	switch name {
	case "google":
		return ProviderGoogle, nil
	case "github":
		return ProviderGitHub, nil
	case "facebook":
		return ProviderFacebook, nil
	}
	return 0, fmt.Errorf("unknown provider %q (expected google, github, or facebook)", name)
}
