package security

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
)

// KeycloakClientConfig points the exchanger at one realm's token endpoint.
type KeycloakClientConfig struct {
	TokenURL   string
	ClientID   string
	HTTPClient *http.Client
}

// KeycloakClient performs the password and refresh_token grants against the
// identity provider. Token claims are decoded without signature
// verification: the provider sits inside the trust boundary and the gateway
// holds no realm keys.
type KeycloakClient struct {
	tokenURL   string
	clientID   string
	httpClient *http.Client
	parser     *jwt.Parser
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func NewKeycloakClient(cfg KeycloakClientConfig) *KeycloakClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &KeycloakClient{
		tokenURL:   strings.TrimSpace(cfg.TokenURL),
		clientID:   strings.TrimSpace(cfg.ClientID),
		httpClient: httpClient,
		parser:     jwt.NewParser(),
	}
}

func (c *KeycloakClient) PasswordGrant(ctx context.Context, username, password string) (ports.TokenSet, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return ports.TokenSet{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	return c.exchange(ctx, form)
}

func (c *KeycloakClient) RefreshGrant(ctx context.Context, refreshToken string) (ports.TokenSet, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return ports.TokenSet{}, fmt.Errorf("%w: refresh token is required", domain.ErrInvalidInput)
	}
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.exchange(ctx, form)
}

func (c *KeycloakClient) exchange(ctx context.Context, form url.Values) (ports.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.TokenSet{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.TokenSet{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ports.TokenSet{}, fmt.Errorf("token exchange failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return ports.TokenSet{}, fmt.Errorf("decode token response: %w", err)
	}
	if strings.TrimSpace(tokenResp.AccessToken) == "" {
		return ports.TokenSet{}, fmt.Errorf("access_token missing in token response")
	}
	return ports.TokenSet{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresIn:    tokenResp.ExpiresIn,
	}, nil
}

// DecodeIdentity pulls the identity claims out of the access token payload.
// ParseUnverified is deliberate; see the trust-boundary note on the type.
func (c *KeycloakClient) DecodeIdentity(accessToken string) (domain.AuthUser, error) {
	claims := jwt.MapClaims{}
	if _, _, err := c.parser.ParseUnverified(accessToken, claims); err != nil {
		return domain.AuthUser{}, fmt.Errorf("decode access token: %w", err)
	}

	subject := stringClaim(claims, "sub")
	if strings.TrimSpace(subject) == "" {
		return domain.AuthUser{}, fmt.Errorf("access token missing sub")
	}
	return domain.AuthUser{
		ID:        subject,
		FirstName: stringClaim(claims, "given_name"),
		LastName:  stringClaim(claims, "family_name"),
		Email:     stringClaim(claims, "email"),
		Username:  stringClaim(claims, "preferred_username"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, ok := claims[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
