package security

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/microshop/admin-gateway/internal/domain"
)

func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func TestPasswordGrantSendsForm(t *testing.T) {
	t.Parallel()

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"client_id":  r.PostFormValue("client_id"),
			"grant_type": r.PostFormValue("grant_type"),
			"username":   r.PostFormValue("username"),
			"password":   r.PostFormValue("password"),
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    300,
		})
	}))
	defer server.Close()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: server.URL, ClientID: "api-gateway"})
	tokens, err := client.PasswordGrant(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatalf("password grant failed: %v", err)
	}
	if tokens.AccessToken != "access-1" || tokens.RefreshToken != "refresh-1" || tokens.ExpiresIn != 300 {
		t.Fatalf("unexpected token set: %+v", tokens)
	}
	want := map[string]string{"client_id": "api-gateway", "grant_type": "password", "username": "ada", "password": "secret"}
	for k, v := range want {
		if gotForm[k] != v {
			t.Fatalf("form[%s] = %s, want %s", k, gotForm[k], v)
		}
	}
}

func TestRefreshGrantSendsForm(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if gt := r.PostFormValue("grant_type"); gt != "refresh_token" {
			t.Errorf("grant_type = %s", gt)
		}
		if rt := r.PostFormValue("refresh_token"); rt != "refresh-1" {
			t.Errorf("refresh_token = %s", rt)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access-2", "refresh_token": "refresh-2", "expires_in": 300})
	}))
	defer server.Close()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: server.URL, ClientID: "api-gateway"})
	tokens, err := client.RefreshGrant(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("refresh grant failed: %v", err)
	}
	if tokens.AccessToken != "access-2" {
		t.Fatalf("unexpected token set: %+v", tokens)
	}
}

func TestExchangeRejectsNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: server.URL, ClientID: "api-gateway"})
	if _, err := client.PasswordGrant(context.Background(), "ada", "wrong"); err == nil {
		t.Fatalf("401 from the provider should surface as an error")
	}
}

func TestExchangeRequiresAccessToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"expires_in": 300})
	}))
	defer server.Close()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: server.URL, ClientID: "api-gateway"})
	if _, err := client.PasswordGrant(context.Background(), "ada", "secret"); err == nil {
		t.Fatalf("a response without access_token should error")
	}
}

func TestPasswordGrantValidatesInput(t *testing.T) {
	t.Parallel()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: "http://localhost:0", ClientID: "api-gateway"})
	if _, err := client.PasswordGrant(context.Background(), "", "secret"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank username should be invalid input, got %v", err)
	}
	if _, err := client.RefreshGrant(context.Background(), " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank refresh token should be invalid input, got %v", err)
	}
}

func TestDecodeIdentityMapsClaims(t *testing.T) {
	t.Parallel()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: "http://localhost:0", ClientID: "api-gateway"})
	token := unsignedToken(t, map[string]any{
		"sub":                "u-1",
		"given_name":         "Ada",
		"family_name":        "Admin",
		"email":              "ada@example.com",
		"preferred_username": "ada",
	})

	user, err := client.DecodeIdentity(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := domain.AuthUser{ID: "u-1", FirstName: "Ada", LastName: "Admin", Email: "ada@example.com", Username: "ada"}
	if user != want {
		t.Fatalf("decoded identity = %+v, want %+v", user, want)
	}
}

func TestDecodeIdentityRequiresSubject(t *testing.T) {
	t.Parallel()

	client := NewKeycloakClient(KeycloakClientConfig{TokenURL: "http://localhost:0", ClientID: "api-gateway"})
	token := unsignedToken(t, map[string]any{"preferred_username": "ada"})
	if _, err := client.DecodeIdentity(token); err == nil {
		t.Fatalf("a token without sub should be rejected")
	}
	if _, err := client.DecodeIdentity("not-a-jwt"); err == nil {
		t.Fatalf("garbage tokens should be rejected")
	}
}
