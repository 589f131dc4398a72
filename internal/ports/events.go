package ports

import "context"

// Publisher emits gateway lifecycle events to the event backbone.
// Delivery is best effort; callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
