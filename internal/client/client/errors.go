package client

import "errors"

var (
	// ErrCredentialsRejected: the Authentication API refused the request (4xx
	// or a login response without a token).
	ErrCredentialsRejected = errors.New("credentials rejected")
	// ErrServerUnreachable: network failure, timeout, cancellation or 5xx.
	ErrServerUnreachable = errors.New("server unreachable")
	// ErrUnauthorized: an expense call was refused because the bearer token
	// is no longer accepted.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRequestFailed: any other non-2xx answer of the Expense API.
	ErrRequestFailed = errors.New("request failed")
)

// APIError carries the status and the server's human-readable message.
// It unwraps to one of the sentinel errors above.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}
