package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the admin gateway.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	KeycloakTokenURL string
	KeycloakClientID string

	RegistryBaseURL string
	ChatBaseURL     string
	BrokerURL       string

	KafkaBrokers []string
	KafkaTopic   string

	HTTPTimeout     time.Duration
	RefreshInterval time.Duration
	RefreshWindow   time.Duration
	ReconnectDelay  time.Duration

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Keycloak struct {
		TokenURL string `yaml:"token_url"`
		ClientID string `yaml:"client_id"`
	} `yaml:"keycloak"`
	Upstreams struct {
		RegistryBaseURL string `yaml:"registry_base_url"`
		ChatBaseURL     string `yaml:"chat_base_url"`
		BrokerURL       string `yaml:"broker_url"`
	} `yaml:"upstreams"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:        "admin-gateway",
		HTTPPort:         8090,
		GRPCPort:         9090,
		KeycloakTokenURL: "http://localhost:8180/realms/microservice/protocol/openid-connect/token",
		KeycloakClientID: "api-gateway",
		RegistryBaseURL:  "http://localhost:8080",
		ChatBaseURL:      "http://localhost:8080",
		BrokerURL:        "ws://localhost:8080/ws-chat",
		KafkaTopic:       "admin-gateway.events",
		HTTPTimeout:      8 * time.Second,
		RefreshInterval:  30 * time.Second,
		RefreshWindow:    60 * time.Second,
		ReconnectDelay:   5 * time.Second,
		MaxDBConns:       20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Keycloak.TokenURL != "" {
			cfg.KeycloakTokenURL = f.Keycloak.TokenURL
		}
		if f.Keycloak.ClientID != "" {
			cfg.KeycloakClientID = f.Keycloak.ClientID
		}
		if f.Upstreams.RegistryBaseURL != "" {
			cfg.RegistryBaseURL = f.Upstreams.RegistryBaseURL
		}
		if f.Upstreams.ChatBaseURL != "" {
			cfg.ChatBaseURL = f.Upstreams.ChatBaseURL
		}
		if f.Upstreams.BrokerURL != "" {
			cfg.BrokerURL = f.Upstreams.BrokerURL
		}
		if len(f.Kafka.Brokers) > 0 {
			cfg.KafkaBrokers = f.Kafka.Brokers
		}
		if f.Kafka.Topic != "" {
			cfg.KafkaTopic = f.Kafka.Topic
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KeycloakTokenURL = envOrDefault("KEYCLOAK_TOKEN_URL", cfg.KeycloakTokenURL)
	cfg.KeycloakClientID = envOrDefault("KEYCLOAK_CLIENT_ID", cfg.KeycloakClientID)
	cfg.RegistryBaseURL = envOrDefault("REGISTRY_BASE_URL", cfg.RegistryBaseURL)
	cfg.ChatBaseURL = envOrDefault("CHAT_BASE_URL", cfg.ChatBaseURL)
	cfg.BrokerURL = envOrDefault("BROKER_URL", cfg.BrokerURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = envOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.HTTPTimeout = time.Duration(envInt("HTTP_TIMEOUT_SECONDS", int(cfg.HTTPTimeout.Seconds()))) * time.Second
	cfg.RefreshInterval = time.Duration(envInt("TOKEN_REFRESH_INTERVAL_SECONDS", int(cfg.RefreshInterval.Seconds()))) * time.Second
	cfg.RefreshWindow = time.Duration(envInt("TOKEN_REFRESH_WINDOW_SECONDS", int(cfg.RefreshWindow.Seconds()))) * time.Second
	cfg.ReconnectDelay = time.Duration(envInt("BROKER_RECONNECT_SECONDS", int(cfg.ReconnectDelay.Seconds()))) * time.Second

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.KeycloakTokenURL == "" {
		return Config{}, fmt.Errorf("missing KEYCLOAK_TOKEN_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
