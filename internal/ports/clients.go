package ports

import (
	"context"

	"github.com/microshop/admin-gateway/internal/domain"
)

// TokenSet is the identity provider's grant response.
// ExpiresIn is the access-token lifetime in seconds, as returned on the wire.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// IdentityProvider is the external token endpoint the session manager
// exchanges credentials with. Implementations talk to a Keycloak-style
// realm; the gateway never re-implements the provider.
type IdentityProvider interface {
	// PasswordGrant exchanges a handle/secret pair for a token set.
	PasswordGrant(ctx context.Context, username, password string) (TokenSet, error)
	// RefreshGrant exchanges the stored refresh token for a rotated token set.
	RefreshGrant(ctx context.Context, refreshToken string) (TokenSet, error)
	// DecodeIdentity extracts the identity claims from an access token.
	// The provider is inside the trust boundary; no signature verification.
	DecodeIdentity(accessToken string) (domain.AuthUser, error)
}

// Registration is the payload the user-registry collaborator accepts.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// UserRegistry creates accounts in the external registry. A 2xx response
// means created; a duplicate maps to domain.ErrConflict.
type UserRegistry interface {
	CreateUser(ctx context.Context, reg Registration) error
}

// ChatHistory fetches the persisted conversation between two users.
// History retrieval stays an external collaborator's responsibility; the
// gateway only proxies it.
type ChatHistory interface {
	History(ctx context.Context, userID, peerID string) ([]domain.ChatMessage, error)
}
