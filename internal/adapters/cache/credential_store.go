package cache

import (
	"context"

	"github.com/microshop/admin-gateway/internal/ports"
	"github.com/redis/go-redis/v9"
)

// Storage field names match the persisted-state contract: authUser, token,
// refreshToken, tokenExpiry. They live in one hash so a bundle read or
// clear is a single round trip.
const credentialKey = "gateway:session"

const (
	fieldAuthUser     = "authUser"
	fieldToken        = "token"
	fieldRefreshToken = "refreshToken"
	fieldTokenExpiry  = "tokenExpiry"
)

// RedisCredentialStore is the durable backing for the single session bundle,
// surviving gateway restarts the way the browser's storage survived reloads.
type RedisCredentialStore struct {
	client *redis.Client
}

func NewRedisCredentialStore(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{client: client}
}

func (s *RedisCredentialStore) Load(ctx context.Context) (ports.CredentialBundle, error) {
	data, err := s.client.HGetAll(ctx, credentialKey).Result()
	if err != nil {
		return ports.CredentialBundle{}, err
	}
	return ports.CredentialBundle{
		AuthUserJSON: data[fieldAuthUser],
		AccessToken:  data[fieldToken],
		RefreshToken: data[fieldRefreshToken],
		TokenExpiry:  data[fieldTokenExpiry],
	}, nil
}

func (s *RedisCredentialStore) Save(ctx context.Context, bundle ports.CredentialBundle) error {
	return s.client.HSet(ctx, credentialKey,
		fieldAuthUser, bundle.AuthUserJSON,
		fieldToken, bundle.AccessToken,
		fieldRefreshToken, bundle.RefreshToken,
		fieldTokenExpiry, bundle.TokenExpiry,
	).Err()
}

func (s *RedisCredentialStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, credentialKey).Err()
}
