package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
)

// Login exchanges a handle/secret pair with the identity provider using the
// password grant. On success the credential bundle is persisted, the session
// becomes authenticated, and observers are signaled to (re)connect.
// Every failure, network, HTTP, or decode, converts to false; nothing
// escapes this boundary.
func (s *Service) Login(ctx context.Context, username, password string) bool {
	tokens, err := s.idp.PasswordGrant(ctx, username, password)
	if err != nil {
		appLogger().WarnContext(ctx, "password grant rejected",
			"operation", "login",
			"outcome", "failure",
			"username", username,
			"error", err,
		)
		return false
	}
	return s.adoptTokens(ctx, "login", tokens, true, 0)
}

// Register delegates account creation to the external user registry and, on
// success, logs the new account in. A registry rejection (conflict included)
// resolves false without attempting login.
func (s *Service) Register(ctx context.Context, req RegisterRequest) bool {
	err := s.registry.CreateUser(ctx, ports.Registration{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
	})
	if err != nil {
		appLogger().WarnContext(ctx, "user registration rejected",
			"operation", "register",
			"outcome", "failure",
			"username", req.Username,
			"error", err,
		)
		return false
	}
	return s.Login(ctx, req.Username, req.Password)
}

// RefreshAccessToken exchanges the stored refresh token for a rotated token
// pair. On success the persisted bundle rotates in place and the session
// stays authenticated. On failure, or when no refresh token is stored, it
// returns false without forcing logout: the session keeps its soon-to-expire
// token. A single in-flight flag rejects overlapping refreshes.
func (s *Service) RefreshAccessToken(ctx context.Context) bool {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return false
	}
	refreshToken := s.session.RefreshToken
	if strings.TrimSpace(refreshToken) == "" {
		s.mu.Unlock()
		return false
	}
	gen := s.sessionGen
	s.refreshing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	tokens, err := s.idp.RefreshGrant(ctx, refreshToken)
	if err != nil {
		appLogger().WarnContext(ctx, "refresh grant rejected",
			"operation", "refresh_access_token",
			"outcome", "failure",
			"error", err,
		)
		return false
	}
	// Rotation does not re-signal observers: the live connection keeps its
	// token until the session itself changes.
	return s.adoptTokens(ctx, "refresh_access_token", tokens, false, gen)
}

// RefreshIfExpiring is the timer entry point: it refreshes iff the stored
// expiry is within the configured window of now.
func (s *Service) RefreshIfExpiring(ctx context.Context) bool {
	s.mu.RLock()
	sess := s.session
	s.mu.RUnlock()

	if !sess.IsAuthenticated() || sess.ExpiresAt.IsZero() {
		return false
	}
	if sess.ExpiresAt.Sub(s.nowFn()) >= s.cfg.RefreshWindow {
		return false
	}
	return s.RefreshAccessToken(ctx)
}

// Logout clears all persisted credential state and signals observers to
// disconnect. The session is dropped and the generation bumped before the
// store is touched, so an in-flight refresh cannot re-persist afterwards.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	user := s.session.User
	s.session = domain.Session{}
	s.sessionGen++
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		appLogger().WarnContext(ctx, "failed to clear credential store",
			"operation", "logout",
			"outcome", "failure",
			"error", err,
		)
	}

	s.notifyObservers(ctx)
	if user != nil {
		s.publishEvent(ctx, eventTypeLoggedOut, map[string]string{"user_id": user.ID}, user.ID)
	}
}

// RestoreSession rebuilds the session from the durable store on startup.
// A complete bundle transitions straight to Authenticated; a malformed
// identity clears the store and leaves the session unauthenticated.
func (s *Service) RestoreSession(ctx context.Context) {
	bundle, err := s.store.Load(ctx)
	if err != nil {
		appLogger().WarnContext(ctx, "failed to read credential store",
			"operation", "restore_session",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	if bundle.AuthUserJSON == "" || bundle.AccessToken == "" {
		return
	}

	var user domain.AuthUser
	if err := json.Unmarshal([]byte(bundle.AuthUserJSON), &user); err != nil {
		appLogger().WarnContext(ctx, "persisted identity is malformed, clearing",
			"operation", "restore_session",
			"outcome", "failure",
			"error", err,
		)
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			appLogger().WarnContext(ctx, "failed to clear credential store",
				"operation", "restore_session",
				"outcome", "failure",
				"error", clearErr,
			)
		}
		return
	}

	var expiresAt time.Time
	if millis, parseErr := strconv.ParseInt(bundle.TokenExpiry, 10, 64); parseErr == nil && millis > 0 {
		expiresAt = time.UnixMilli(millis).UTC()
	}

	s.mu.Lock()
	s.session = domain.Session{
		User:         &user,
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		ExpiresAt:    expiresAt,
	}
	s.sessionGen++
	s.mu.Unlock()

	appLogger().InfoContext(ctx, "session restored from durable storage",
		"operation", "restore_session",
		"outcome", "success",
		"user_id", user.ID,
	)
	s.notifyObservers(ctx)
}

// adoptTokens decodes the identity off the access token, persists the full
// bundle, and swaps the in-memory session. signal controls whether observers
// are notified (login re-keys the connection; rotation does not). A rotation
// additionally carries the generation it started from and is discarded when
// the session changed underneath it, so a logout that lands while a refresh
// grant is in flight stays a logout.
func (s *Service) adoptTokens(ctx context.Context, operation string, tokens ports.TokenSet, signal bool, expectGen uint64) bool {
	user, err := s.idp.DecodeIdentity(tokens.AccessToken)
	if err != nil {
		appLogger().WarnContext(ctx, "access token claims are not decodable",
			"operation", operation,
			"outcome", "failure",
			"error", err,
		)
		return false
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return false
	}
	expiresAt := s.nowFn().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	bundle := ports.CredentialBundle{
		AuthUserJSON: string(rawUser),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenExpiry:  strconv.FormatInt(expiresAt.UnixMilli(), 10),
	}
	// Persist and swap under the lock so a concurrent logout is either fully
	// before this adoption (generation mismatch, discard) or fully after it
	// (its clear wins over this save).
	s.mu.Lock()
	if !signal && s.sessionGen != expectGen {
		s.mu.Unlock()
		appLogger().WarnContext(ctx, "session changed during refresh, discarding rotation",
			"operation", operation,
			"outcome", "discarded",
		)
		return false
	}
	if err := s.store.Save(ctx, bundle); err != nil {
		s.mu.Unlock()
		appLogger().WarnContext(ctx, "failed to persist credential bundle",
			"operation", operation,
			"outcome", "failure",
			"error", err,
		)
		return false
	}
	s.session = domain.Session{
		User:         &user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    expiresAt,
	}
	s.sessionGen++
	s.mu.Unlock()

	if signal {
		s.notifyObservers(ctx)
		s.publishEvent(ctx, eventTypeLoggedIn, map[string]string{
			"user_id":  user.ID,
			"username": user.Username,
		}, user.ID)
	} else {
		s.publishEvent(ctx, eventTypeTokenRefreshed, map[string]string{"user_id": user.ID}, user.ID)
	}

	appLogger().InfoContext(ctx, "session credentials updated",
		"operation", operation,
		"outcome", "success",
		"user_id", user.ID,
		"expires_at", expiresAt,
	)
	return true
}
