package services

import (
	"errors"

	"github.com/dmitrijs2005/expensekeeper/internal/client/biometric"
	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
)

var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrNotAuthenticated          = errors.New("not authenticated")
	ErrRegistrationFailed        = errors.New("registration failed")
	ErrAutoLoginFailed           = errors.New("registration succeeded but auto-login failed")
	ErrStoredCredentialsRejected = errors.New("invalid credentials stored")
)

// UserMessage maps an error from this package's services to text that can
// be shown to the user. It returns "" for nil.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *client.APIError
	hasServerMessage := errors.As(err, &apiErr) && apiErr.Message != ""

	switch {
	case errors.Is(err, client.ErrServerUnreachable):
		return "Unable to connect to server"
	case errors.Is(err, ErrAutoLoginFailed):
		return "Registration succeeded but auto-login failed"
	case errors.Is(err, ErrStoredCredentialsRejected):
		return "Invalid credentials stored"
	case errors.Is(err, client.ErrUnauthorized):
		return "Session expired. Please login again"
	case hasServerMessage:
		return apiErr.Message
	case errors.Is(err, ErrRegistrationFailed):
		return "Registration failed"
	case errors.Is(err, client.ErrCredentialsRejected):
		return "Invalid credentials"
	case errors.Is(err, client.ErrRequestFailed):
		return "Request failed"
	case errors.Is(err, ErrInvalidInput):
		return "Please fill in all fields correctly"
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, biometric.ErrNoSession):
		return "Please login first"
	case errors.Is(err, biometric.ErrSensorUnavailable):
		return "Biometric authentication is not available on this device"
	case errors.Is(err, biometric.ErrNoCredentials):
		return "No credentials found. Please login normally first."
	case errors.Is(err, secretstore.ErrStorageUnavailable):
		return "Secure storage is unavailable"
	}
	return "Something went wrong"
}
