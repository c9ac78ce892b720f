package session

import "errors"

var (
	ErrClosed         = errors.New("session manager closed")
	ErrInvalidSession = errors.New("session requires both user and token")
)
