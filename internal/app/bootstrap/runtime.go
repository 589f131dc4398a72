package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/microshop/admin-gateway/internal/adapters/broker"
	cacheadapter "github.com/microshop/admin-gateway/internal/adapters/cache"
	chatadapter "github.com/microshop/admin-gateway/internal/adapters/chat"
	eventadapter "github.com/microshop/admin-gateway/internal/adapters/events"
	httpadapter "github.com/microshop/admin-gateway/internal/adapters/http"
	"github.com/microshop/admin-gateway/internal/adapters/postgres"
	"github.com/microshop/admin-gateway/internal/adapters/registry"
	"github.com/microshop/admin-gateway/internal/adapters/security"
	"github.com/microshop/admin-gateway/internal/application"
	"github.com/microshop/admin-gateway/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	connection *broker.ConnectionController
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	refresher  *eventadapter.TokenRefreshWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping admin gateway", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	repos := postgres.NewRepositories(db)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	idp := security.NewKeycloakClient(security.KeycloakClientConfig{
		TokenURL:   cfg.KeycloakTokenURL,
		ClientID:   cfg.KeycloakClientID,
		HTTPClient: httpClient,
	})
	userRegistry := registry.NewClient(cfg.RegistryBaseURL, httpClient)
	history := chatadapter.NewHistoryClient(cfg.ChatBaseURL, httpClient)

	connection := broker.NewConnectionController(
		logger,
		broker.NewWebsocketDialer(cfg.BrokerURL),
		cfg.ReconnectDelay,
	)

	var publisher ports.Publisher
	var kafkaPublisher *eventadapter.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err = eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
	} else {
		logger.Warn("no kafka brokers configured, events will only be logged")
		publisher = eventadapter.NewLoggingPublisher(logger)
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			RefreshWindow: cfg.RefreshWindow,
		},
		Store:     cacheadapter.NewRedisCredentialStore(redisClient),
		Identity:  idp,
		Registry:  userRegistry,
		History:   history,
		Gateway:   connection,
		Users:     repos.Users,
		Products:  repos.Products,
		Orders:    repos.Orders,
		Events:    publisher,
		Observers: []ports.SessionObserver{connection},
	})

	handler := httpadapter.NewHandler(svc, func() error {
		return redisClient.Ping(context.Background()).Err()
	})
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	refresher := eventadapter.NewTokenRefreshWorker(logger, svc, cfg.RefreshInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		connection: connection,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		refresher:  refresher,
		cleanupFn: func(ctx context.Context) {
			connection.Close()
			if kafkaPublisher != nil {
				_ = kafkaPublisher.Close()
			}
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bring back whatever session survived the last run before serving
	// traffic; the live connection follows via the session observer.
	r.service.RestoreSession(ctx)

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		if err := r.refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("token refresh worker stopped", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.service.RestoreSession(ctx)

	r.logger.Info("token refresh worker started", "interval", r.cfg.RefreshInterval.String())
	err := r.refresher.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
