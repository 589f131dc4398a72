package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
)

type fakeIdentity struct {
	passwordGrantFn func(ctx context.Context, username, password string) (ports.TokenSet, error)
	refreshGrantFn  func(ctx context.Context, refreshToken string) (ports.TokenSet, error)
	identities      map[string]domain.AuthUser
}

func (f *fakeIdentity) PasswordGrant(ctx context.Context, username, password string) (ports.TokenSet, error) {
	return f.passwordGrantFn(ctx, username, password)
}

func (f *fakeIdentity) RefreshGrant(ctx context.Context, refreshToken string) (ports.TokenSet, error) {
	return f.refreshGrantFn(ctx, refreshToken)
}

func (f *fakeIdentity) DecodeIdentity(accessToken string) (domain.AuthUser, error) {
	if user, ok := f.identities[accessToken]; ok {
		return user, nil
	}
	return domain.AuthUser{}, domain.ErrInvalidCredentials
}

type memCredentialStore struct {
	mu      sync.Mutex
	bundle  ports.CredentialBundle
	loadErr error
	saveErr error
	clears  int
}

func (m *memCredentialStore) Load(ctx context.Context) (ports.CredentialBundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return ports.CredentialBundle{}, m.loadErr
	}
	return m.bundle, nil
}

func (m *memCredentialStore) Save(ctx context.Context, bundle ports.CredentialBundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bundle = bundle
	return nil
}

func (m *memCredentialStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundle = ports.CredentialBundle{}
	m.clears++
	return nil
}

func (m *memCredentialStore) snapshot() ports.CredentialBundle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bundle
}

func (m *memCredentialStore) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

type recordingObserver struct {
	mu    sync.Mutex
	creds []domain.Credential
}

func (r *recordingObserver) SessionChanged(ctx context.Context, cred domain.Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = append(r.creds, cred)
}

func (r *recordingObserver) all() []domain.Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Credential, len(r.creds))
	copy(out, r.creds)
	return out
}

type fakeGateway struct {
	mu        sync.Mutex
	published []domain.ChatMessage
	latest    *domain.ChatMessage
	connected bool
}

func (g *fakeGateway) Publish(msg domain.ChatMessage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.published = append(g.published, msg)
}

func (g *fakeGateway) Latest() (domain.ChatMessage, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		return domain.ChatMessage{}, false
	}
	return *g.latest, true
}

func (g *fakeGateway) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

type fakeRegistry struct {
	createFn func(ctx context.Context, reg ports.Registration) error
	created  []ports.Registration
}

func (f *fakeRegistry) CreateUser(ctx context.Context, reg ports.Registration) error {
	f.created = append(f.created, reg)
	if f.createFn != nil {
		return f.createFn(ctx, reg)
	}
	return nil
}

type fakeHistory struct {
	messages []domain.ChatMessage
	lastUser string
	lastPeer string
}

func (f *fakeHistory) History(ctx context.Context, userID, peerID string) ([]domain.ChatMessage, error) {
	f.lastUser = userID
	f.lastPeer = peerID
	return f.messages, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturePublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	copy(out, p.events)
	return out
}

type fixture struct {
	service  *Service
	idp      *fakeIdentity
	store    *memCredentialStore
	observer *recordingObserver
	gateway  *fakeGateway
	registry *fakeRegistry
	history  *fakeHistory
	events   *capturePublisher
	now      time.Time
}

func newFixture() *fixture {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	idp := &fakeIdentity{
		identities: map[string]domain.AuthUser{
			"access-1": {ID: "u-1", FirstName: "Ada", LastName: "Admin", Email: "ada@example.com", Username: "ada"},
			"access-2": {ID: "u-1", FirstName: "Ada", LastName: "Admin", Email: "ada@example.com", Username: "ada"},
		},
		passwordGrantFn: func(ctx context.Context, username, password string) (ports.TokenSet, error) {
			if username == "ada" && password == "secret" {
				return ports.TokenSet{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 300}, nil
			}
			return ports.TokenSet{}, domain.ErrInvalidCredentials
		},
		refreshGrantFn: func(ctx context.Context, refreshToken string) (ports.TokenSet, error) {
			if refreshToken == "refresh-1" {
				return ports.TokenSet{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 300}, nil
			}
			return ports.TokenSet{}, domain.ErrInvalidCredentials
		},
	}
	f := &fixture{
		idp:      idp,
		store:    &memCredentialStore{},
		observer: &recordingObserver{},
		gateway:  &fakeGateway{},
		registry: &fakeRegistry{},
		history:  &fakeHistory{},
		events:   &capturePublisher{},
		now:      now,
	}
	f.service = NewService(Dependencies{
		Store:     f.store,
		Identity:  f.idp,
		Registry:  f.registry,
		History:   f.history,
		Gateway:   f.gateway,
		Events:    f.events,
		Observers: []ports.SessionObserver{f.observer},
	})
	f.service.nowFn = func() time.Time { return f.now }
	return f
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(raw)
}
