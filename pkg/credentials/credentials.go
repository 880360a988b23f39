package credentials

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/inkwell-social/inkwell-cli/pkg/config"
)

// Cookie is the durable form of a session cookie. The platform authenticates
// with an HTTP-only session cookie set by the OAuth callback, so the client
// persists the jar contents between runs.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure"`
	HTTPOnly bool      `json:"http_only"`
}

type Credentials struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Cookies  []Cookie  `json:"cookies"`
	SavedAt  time.Time `json:"saved_at"`
}

// HasSession reports whether a usable session cookie is present
func (c *Credentials) HasSession() bool {
	if c == nil {
		return false
	}
	for _, ck := range c.Cookies {
		if ck.Value == "" {
			continue
		}
		if ck.Expires.IsZero() || ck.Expires.After(time.Now()) {
			return true
		}
	}
	return false
}

// HTTPCookies converts the stored cookies back into http.Cookie values
func (c *Credentials) HTTPCookies() []*http.Cookie {
	if c == nil {
		return nil
	}
	cookies := make([]*http.Cookie, 0, len(c.Cookies))
	for _, ck := range c.Cookies {
		cookies = append(cookies, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   ck.Domain,
			Path:     ck.Path,
			Expires:  ck.Expires,
			Secure:   ck.Secure,
			HttpOnly: ck.HTTPOnly,
		})
	}
	return cookies
}

// FromHTTPCookies replaces the stored cookies from http.Cookie values
func (c *Credentials) FromHTTPCookies(cookies []*http.Cookie) {
	c.Cookies = c.Cookies[:0]
	for _, ck := range cookies {
		c.Cookies = append(c.Cookies, Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   ck.Domain,
			Path:     ck.Path,
			Expires:  ck.Expires,
			Secure:   ck.Secure,
			HTTPOnly: ck.HttpOnly,
		})
	}
}

// Load loads credentials from disk
func Load() (*Credentials, error) {
	path := config.GetCredentialsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Credentials don't exist yet
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to disk
func Save(creds *Credentials) error {
	path := config.GetCredentialsPath()

	creds.SavedAt = time.Now()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	// Write with restricted permissions (owner read/write only)
	return os.WriteFile(path, data, 0600)
}

// Delete deletes credentials from disk
func Delete() error {
	path := config.GetCredentialsPath()

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
