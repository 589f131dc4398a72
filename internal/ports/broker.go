package ports

import (
	"context"

	"github.com/microshop/admin-gateway/internal/domain"
)

// BrokerDialer opens one duplex transport to the message broker, authorized
// by the access token. The token rides as a query parameter on the handshake.
type BrokerDialer interface {
	Dial(ctx context.Context, token string) (BrokerConn, error)
}

// BrokerConn is a single established broker transport. Frames are opaque
// byte payloads; the connection controller owns framing on top.
type BrokerConn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// MessageGateway is the application-facing surface of the live connection.
type MessageGateway interface {
	// Publish sends to the broker's inbound endpoint. When no connection is
	// live the message is dropped with a logged warning; no error, no queue.
	Publish(msg domain.ChatMessage)
	// Latest returns the most recently received inbound message, if any.
	// Most-recent-wins; there is no backlog.
	Latest() (domain.ChatMessage, bool)
	Connected() bool
}
