package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-social/inkwell-cli/pkg/api"
	"github.com/inkwell-social/inkwell-cli/pkg/client"
	"github.com/inkwell-social/inkwell-cli/pkg/config"
	"github.com/inkwell-social/inkwell-cli/pkg/credentials"
	"github.com/inkwell-social/inkwell-cli/pkg/errors"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
	"github.com/inkwell-social/inkwell-cli/pkg/output"
	"github.com/inkwell-social/inkwell-cli/pkg/session"
)

// AuthService drives the session manager for the auth command group
type AuthService struct {
	manager *session.Manager
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	return &AuthService{manager: session.NewManager()}
}

// Manager exposes the session manager to collaborating services
func (s *AuthService) Manager() *session.Manager {
	return s.manager
}

// Login starts the provider redirect flow, then polls the identity probe
// until the OAuth round trip lands a session cookie or the login window
// times out
func (s *AuthService) Login(ctx context.Context, providerName, returnPath string) error {
	provider, err := session.ParseProvider(providerName)
	if err != nil {
		return errors.ValidationError("provider", err.Error())
	}

	client.Init()

	creds, err := credentials.Load()
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		return err
	}
	if creds.HasSession() {
		output.PrintWarning("Already logged in as %s", creds.Username)
	}

	if err := s.manager.Login(provider, returnPath); err != nil {
		output.PrintError("Could not open the browser: %v", err)
		return err
	}

	output.PrintInfo("Complete the %s sign-in in your browser...", provider.String())

	if err := s.waitForSession(ctx); err != nil {
		return err
	}

	user := s.manager.User()
	if err := client.SaveSession(&credentials.Credentials{
		UserID:   user.ID,
		Username: user.Name,
		Email:    user.Email,
	}); err != nil {
		output.PrintError("Failed to save session: %v", err)
		return err
	}

	output.PrintSuccess("✓ Login successful!")
	output.PrintInfo("Logged in as %s", output.Bold.Sprint(user.Name))

	if path := session.ConsumeRedirectPath(); path != "" && path != "/" {
		output.PrintInfo("Returning to %s", path)
	}

	fmt.Printf("\n")
	return s.printUser(user)
}

// waitForSession polls CheckAuth until a user identity resolves
func (s *AuthService) waitForSession(ctx context.Context) error {
	timeout := time.Duration(config.GetInt("auth.login_timeout")) * time.Second
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		s.manager.CheckAuth(ctx)
		if s.manager.User() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	if lastErr := s.manager.LastError(); lastErr != nil {
		output.PrintError("Login probe failed: %v", lastErr)
	}
	return errors.NewCLIError(errors.ErrorTypeTimeout, "Login timed out", nil).
		WithSuggestion("Finish the provider sign-in in your browser, then run 'inkwell auth login' again.")
}

// Logout signs out fail-open: local session state clears even when the
// backend request fails
func (s *AuthService) Logout(ctx context.Context) error {
	client.Init()

	s.manager.Logout(ctx)

	output.PrintSuccess("✓ Logged out successfully")
	output.PrintInfo("Run 'inkwell auth login' to sign back in.")
	return nil
}

// WhoAmI probes the identity endpoint and displays the current user
func (s *AuthService) WhoAmI(ctx context.Context) error {
	client.Init()

	s.manager.CheckAuth(ctx)

	user := s.manager.User()
	if user == nil {
		if lastErr := s.manager.LastError(); lastErr != nil {
			output.PrintWarning("Could not determine login status: %v", lastErr)
			return errors.FromAPIError(lastErr)
		}
		return errors.NotLoggedInError()
	}

	return s.printUser(user)
}

// Status shows the session manager's view of the world, including probe
// failures that are invisible in the user value alone
func (s *AuthService) Status(ctx context.Context) error {
	client.Init()

	s.manager.CheckAuth(ctx)

	record := map[string]interface{}{
		"Ready":     s.manager.IsReady(),
		"Check":     s.manager.CheckState().String(),
		"Logged in": s.manager.User() != nil,
	}
	if user := s.manager.User(); user != nil {
		record["User"] = user.Name
		record["User ID"] = user.ID
	}
	if lastErr := s.manager.LastError(); lastErr != nil {
		record["Last error"] = lastErr.Error()
	}
	return output.PrintRecord(record)
}

func (s *AuthService) printUser(user *api.User) error {
	if output.GetFormat() == output.FormatJSON {
		return output.Print(user)
	}
	record := map[string]interface{}{
		"Name":      user.Name,
		"Email":     user.Email,
		"Bio":       user.Bio,
		"Status":    user.Status,
		"Followers": len(user.Followers),
		"Following": len(user.Following),
	}
	if user.Picture != "" {
		record["Picture"] = user.Picture
	}
	return output.PrintRecord(record)
}

// CurrentUserID resolves the active user id, preferring the live probe and
// falling back to stored credentials
func CurrentUserID(ctx context.Context, manager *session.Manager) (string, error) {
	manager.CheckAuth(ctx)
	if user := manager.User(); user != nil {
		return user.ID, nil
	}

	if lastErr := manager.LastError(); lastErr != nil {
		// Could not determine status; stored identity is the best guess
		creds, err := credentials.Load()
		if err == nil && creds != nil && strings.TrimSpace(creds.UserID) != "" {
			return creds.UserID, nil
		}
		return "", errors.FromAPIError(lastErr)
	}

	return "", errors.NotLoggedInError()
}
