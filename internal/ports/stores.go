package ports

import (
	"context"

	"github.com/microshop/admin-gateway/internal/domain"
)

// CredentialBundle is the persisted session state, one field per storage key.
// AuthUserJSON stays raw so a corrupt value can be detected (and cleared) at
// restore instead of failing the store read.
type CredentialBundle struct {
	AuthUserJSON string // key "authUser"
	AccessToken  string // key "token"
	RefreshToken string // key "refreshToken"
	TokenExpiry  string // key "tokenExpiry", absolute epoch millis
}

// Empty reports whether no credential material is persisted at all.
func (b CredentialBundle) Empty() bool {
	return b.AuthUserJSON == "" && b.AccessToken == ""
}

// CredentialStore is the durable key/value storage for the single session
// bundle. The session manager is its sole writer; other components receive
// credential changes only through SessionObserver notifications.
type CredentialStore interface {
	Load(ctx context.Context) (CredentialBundle, error)
	Save(ctx context.Context, bundle CredentialBundle) error
	Clear(ctx context.Context) error
}

// SessionObserver receives credential changes from the session manager.
// Registration happens at construction time; there is no ambient callback
// slot to reach into.
type SessionObserver interface {
	SessionChanged(ctx context.Context, cred domain.Credential)
}
