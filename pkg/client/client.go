package client

import (
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/inkwell-social/inkwell-cli/pkg/config"
	"github.com/inkwell-social/inkwell-cli/pkg/credentials"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
)

var httpClient *resty.Client

// Init initializes the HTTP client. The platform session is cookie-based, so
// the client carries a cookie jar seeded from the credentials store.
func Init() {
	httpClient = resty.New()

	baseURL := config.GetString("api.base_url")
	timeout := time.Duration(config.GetInt("api.timeout")) * time.Second

	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("User-Agent", "Inkwell-CLI/0.1.0")

	jar, err := cookiejar.New(nil)
	if err == nil {
		httpClient.SetCookieJar(jar)
	}
	restoreSession(baseURL)

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode())
		return nil
	})
}

// GetClient returns the HTTP client
func GetClient() *resty.Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}

// SetBaseURL points the client at a different API host
func SetBaseURL(baseURL string) {
	GetClient().SetBaseURL(baseURL)
}

// restoreSession seeds the cookie jar with persisted session cookies
func restoreSession(baseURL string) {
	creds, err := credentials.Load()
	if err != nil || creds == nil {
		return
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return
	}

	if jar := httpClient.GetClient().Jar; jar != nil {
		jar.SetCookies(u, creds.HTTPCookies())
	}
}

// SaveSession persists the jar's cookies for the API host so the session
// survives process exit
func SaveSession(creds *credentials.Credentials) error {
	c := GetClient()

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}

	if jar := c.GetClient().Jar; jar != nil {
		creds.FromHTTPCookies(jar.Cookies(u))
	}
	return credentials.Save(creds)
}

// ClearSession drops all cookies and rebuilds the client
func ClearSession() {
	httpClient = resty.New()
	baseURL := config.GetString("api.base_url")
	timeout := time.Duration(config.GetInt("api.timeout")) * time.Second
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("User-Agent", "Inkwell-CLI/0.1.0")
	if jar, err := cookiejar.New(nil); err == nil {
		httpClient.SetCookieJar(jar)
	}
}
