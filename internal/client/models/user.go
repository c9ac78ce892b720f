// Package models holds the client-side data types shared by the session,
// biometric and API layers.
package models

// User is the identity returned by the Authentication API and persisted as
// the serialized user profile.
type User struct {
	ID    int64  `json:"id" validate:"required"`
	Email string `json:"email" validate:"required"`
	Name  string `json:"name"`
}
