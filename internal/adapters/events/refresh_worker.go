package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/microshop/admin-gateway/internal/application"
)

// TokenRefreshWorker is the only periodic background activity in the
// gateway: every tick it asks the session manager to refresh the access
// token when expiry is inside the refresh window. The tick itself carries
// no threshold logic; that decision belongs to the session manager.
type TokenRefreshWorker struct {
	logger   *slog.Logger
	service  *application.Service
	interval time.Duration
}

func NewTokenRefreshWorker(logger *slog.Logger, service *application.Service, interval time.Duration) *TokenRefreshWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &TokenRefreshWorker{
		logger:   logger,
		service:  service,
		interval: interval,
	}
}

func (w *TokenRefreshWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if w.service.RefreshIfExpiring(ctx) {
			w.logger.InfoContext(ctx, "access token refreshed",
				"module", "events.token_refresh_worker",
				"layer", "adapter",
				"operation", "refresh_if_expiring",
				"outcome", "success",
			)
		}
	}
}
