package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/inkwell-social/inkwell-cli/pkg/api"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeAuth         ErrorType = "auth"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeServer       ErrorType = "server"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NotLoggedInError signals that a command needs an authenticated session
func NotLoggedInError() *CLIError {
	err := NewCLIError(ErrorTypeAuth, "Not logged in", nil)
	err.Suggestion = "Run 'inkwell auth login' to sign in with a provider."
	return err
}

// SessionExpiredError signals that the stored session no longer works
func SessionExpiredError() *CLIError {
	err := NewCLIError(ErrorTypeAuth, "Your session has expired", nil)
	err.Suggestion = "Run 'inkwell auth login' to refresh your session."
	return err
}

// NetworkError creates a network error
func NetworkError(message string, cause error) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, cause)
	err.Suggestion = "Check your internet connection and try again."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// FromAPIError maps an API failure onto a CLI error with a suggestion
func FromAPIError(err error) *CLIError {
	switch {
	case api.IsUnauthorized(err):
		return SessionExpiredError()
	case api.IsForbidden(err):
		out := NewCLIError(ErrorTypeForbidden, "Access denied", err)
		out.Suggestion = "Make sure you're signed in with the right account."
		return out
	case api.IsNotFound(err):
		return NewCLIError(ErrorTypeNotFound, "Not found", err)
	case api.IsServerError(err):
		out := NewCLIError(ErrorTypeServer, "The server hit an internal error", err)
		out.Suggestion = "Try again in a moment."
		return out
	}
	return NewCLIError(ErrorTypeUnknown, err.Error(), err)
}

// IsType checks whether err is a CLIError of the given type
func IsType(err error, errorType ErrorType) bool {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr.Type == errorType
	}
	return false
}
