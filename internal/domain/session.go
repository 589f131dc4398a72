package domain

import (
	"strings"
	"time"
)

// AuthUser is the identity decoded from the access token claims.
// It mirrors what the identity provider asserts about the actor; the gateway
// never invents identity fields of its own.
type AuthUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

// Session is the current authenticated actor plus credential material.
// The session manager is its exclusive owner; everyone else gets a copy.
type Session struct {
	User         *AuthUser
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IsAuthenticated holds iff a non-empty access token and a decoded identity
// are both present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && strings.TrimSpace(s.AccessToken) != ""
}

// Credential is the (token, user id) pair the live broker connection is
// keyed by. An incomplete pair means "no connection".
type Credential struct {
	Token  string
	UserID string
}

func (c Credential) Complete() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.UserID) != ""
}
