package api

import (
	"bytes"
	"context"

	"github.com/inkwell-social/inkwell-cli/pkg/client"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
	json "github.com/json-iterator/go"
)

// GetProfile sends the credentialed identity probe. A nil user with a nil
// error means the server confirmed there is no authenticated session (401,
// 403, or an empty body); any other failure is returned as an error.
func GetProfile(ctx context.Context) (*User, error) {
	logger.Debug("Probing identity endpoint")

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Get("/user/profile")

	if err != nil {
		return nil, err
	}

	switch resp.StatusCode() {
	case 401, 403:
		return nil, nil
	}

	if !resp.IsSuccess() {
		return nil, ParseError(resp)
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &APIError{
			Code:       "invalid_profile",
			Message:    err.Error(),
			StatusCode: resp.StatusCode(),
		}
	}

	return &user, nil
}

// Logout sends the credentialed sign-out request
func Logout(ctx context.Context) error {
	logger.Debug("Signing out")

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Post("/logout")

	return CheckResponse(resp, err)
}
