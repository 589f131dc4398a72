package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
)

// Service implements the gateway use-cases: the session/token lifecycle,
// the catalog CRUD screens, and the chat surface. The session state it
// guards is process-wide and singular; everything else is stateless
// delegation to ports.
type Service struct {
	cfg      Config
	store    ports.CredentialStore
	idp      ports.IdentityProvider
	registry ports.UserRegistry
	history  ports.ChatHistory
	gateway  ports.MessageGateway
	users    ports.UserRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
	events   ports.Publisher
	nowFn    func() time.Time

	mu         sync.RWMutex
	session    domain.Session
	sessionGen uint64
	refreshing bool
	observers  []ports.SessionObserver
}

type Dependencies struct {
	Config    Config
	Store     ports.CredentialStore
	Identity  ports.IdentityProvider
	Registry  ports.UserRegistry
	History   ports.ChatHistory
	Gateway   ports.MessageGateway
	Users     ports.UserRepository
	Products  ports.ProductRepository
	Orders    ports.OrderRepository
	Events    ports.Publisher
	Observers []ports.SessionObserver
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.RefreshWindow <= 0 {
		cfg.RefreshWindow = 60 * time.Second
	}
	return &Service{
		cfg:       cfg,
		store:     deps.Store,
		idp:       deps.Identity,
		registry:  deps.Registry,
		history:   deps.History,
		gateway:   deps.Gateway,
		users:     deps.Users,
		products:  deps.Products,
		orders:    deps.Orders,
		events:    deps.Events,
		observers: deps.Observers,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// RegisterSessionObserver adds an observer after construction. Used when the
// observer itself needs the service wired first.
func (s *Service) RegisterSessionObserver(obs ports.SessionObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// CurrentSession returns a copy of the session state.
func (s *Service) CurrentSession() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Service) IsAuthenticated() bool {
	return s.CurrentSession().IsAuthenticated()
}

// notifyObservers pushes the current (token, user id) pair to every
// registered observer. Observers never re-read the credential store.
func (s *Service) notifyObservers(ctx context.Context) {
	s.mu.RLock()
	cred := domain.Credential{Token: s.session.AccessToken}
	if s.session.User != nil {
		cred.UserID = s.session.User.ID
	}
	observers := make([]ports.SessionObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, obs := range observers {
		obs.SessionChanged(ctx, cred)
	}
}

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "admin-gateway",
		"module", "application",
		"layer", "application",
	)
}
