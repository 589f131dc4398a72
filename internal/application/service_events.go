package application

import (
	"context"
	"encoding/json"
)

const (
	// eventTypeLoggedIn is emitted after a successful credential exchange.
	eventTypeLoggedIn = "auth.logged_in"
	// eventTypeLoggedOut is emitted when the session is torn down.
	eventTypeLoggedOut = "auth.logged_out"
	// eventTypeTokenRefreshed is emitted after an in-place token rotation.
	eventTypeTokenRefreshed = "auth.token_refreshed"

	eventTypeUserCreated    = "catalog.user_created"
	eventTypeUserDeleted    = "catalog.user_deleted"
	eventTypeProductCreated = "catalog.product_created"
	eventTypeProductDeleted = "catalog.product_deleted"
	eventTypeOrderCreated   = "catalog.order_created"
	eventTypeOrderDeleted   = "catalog.order_deleted"
)

// publishEvent emits a lifecycle event best effort. Failures are logged and
// never influence the outcome of the operation that raised them.
func (s *Service) publishEvent(ctx context.Context, eventType string, payload any, partitionKey string) {
	if s.events == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, raw, partitionKey); err != nil {
		appLogger().WarnContext(ctx, "event publish failed",
			"operation", "publish_event",
			"outcome", "failure",
			"event_type", eventType,
			"error", err,
		)
	}
}
