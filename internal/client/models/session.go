package models

// Session is an immutable snapshot of the authentication state. It is
// produced by the session manager; mutating a copy has no effect on it.
type Session struct {
	User              *User
	Token             string
	IsAuthenticated   bool
	BiometricsEnabled bool
}

// NewSession builds a snapshot and derives IsAuthenticated from the presence
// of both user and token.
func NewSession(user *User, token string, biometricsEnabled bool) Session {
	s := Session{Token: token, BiometricsEnabled: biometricsEnabled}
	if user != nil {
		u := *user
		s.User = &u
	}
	s.IsAuthenticated = s.User != nil && s.Token != ""
	return s
}

// UserID returns the user's id or 0 when logged out.
func (s Session) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}
