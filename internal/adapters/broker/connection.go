package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
)

const (
	inboundQueue    = "/user/queue/messages"
	sendDestination = "/app/chat.send"
)

// ConnectionController owns the single live broker connection. It observes
// the session's (token, user id) pair: a complete pair keeps exactly one
// connection alive, an incomplete pair keeps exactly zero. On transport
// loss it redials with a fixed delay, indefinitely.
type ConnectionController struct {
	logger         *slog.Logger
	dialer         ports.BrokerDialer
	reconnectDelay time.Duration

	mu        sync.Mutex
	cred      domain.Credential
	conn      ports.BrokerConn
	connected bool
	cancel    context.CancelFunc
	done      chan struct{}

	latestMu sync.RWMutex
	latest   *domain.ChatMessage
}

func NewConnectionController(logger *slog.Logger, dialer ports.BrokerDialer, reconnectDelay time.Duration) *ConnectionController {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &ConnectionController{
		logger: logger.With(
			"module", "broker",
			"layer", "adapter",
		),
		dialer:         dialer,
		reconnectDelay: reconnectDelay,
	}
}

// SessionChanged implements ports.SessionObserver. Any existing connection
// is deactivated before a replacement is created, so at most one connection
// is ever live.
func (c *ConnectionController) SessionChanged(ctx context.Context, cred domain.Credential) {
	c.deactivate()
	if !cred.Complete() {
		return
	}
	c.activate(cred)
}

// Close tears the connection down for good. Only process shutdown calls it.
func (c *ConnectionController) Close() {
	c.deactivate()
}

func (c *ConnectionController) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Latest returns the most recently received inbound message, if any.
func (c *ConnectionController) Latest() (domain.ChatMessage, bool) {
	c.latestMu.RLock()
	defer c.latestMu.RUnlock()
	if c.latest == nil {
		return domain.ChatMessage{}, false
	}
	return *c.latest, true
}

// Publish sends one message to the broker's inbound endpoint. When no
// connection is live the message is dropped with a warning: no error, no
// queueing, no retry.
func (c *ConnectionController) Publish(msg domain.ChatMessage) {
	c.mu.Lock()
	conn, connected := c.conn, c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		c.logger.Warn("dropping publish, broker not connected",
			"operation", "publish",
			"outcome", "dropped",
			"receiver", msg.Receiver,
		)
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("cannot encode outbound message",
			"operation", "publish",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	out := frame{
		Command: cmdSend,
		Headers: map[string]string{
			"destination":  sendDestination,
			"content-type": "application/json",
		},
		Body: body,
	}
	if err := conn.WriteMessage(out.marshal()); err != nil {
		c.logger.Warn("publish write failed",
			"operation", "publish",
			"outcome", "failure",
			"error", err,
		)
	}
}

func (c *ConnectionController) activate(cred domain.Credential) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.cred = cred
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go c.run(ctx, cred, done)
}

// deactivate cancels the connection loop, closes any open transport, and
// waits for the loop to exit so a replacement can never overlap with it.
func (c *ConnectionController) deactivate() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	done := c.done
	c.cancel = nil
	c.done = nil
	c.cred = domain.Credential{}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	if done != nil {
		<-done
	}
}

func (c *ConnectionController) run(ctx context.Context, cred domain.Credential, done chan struct{}) {
	defer close(done)
	defer c.clearConn()

	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := c.dialer.Dial(ctx, cred.Token)
		if err != nil {
			c.logger.Error("broker dial failed",
				"operation", "connect",
				"outcome", "failure",
				"error", err,
			)
			if !c.sleep(ctx) {
				return
			}
			continue
		}
		c.setConn(conn, false)
		if ctx.Err() != nil {
			c.clearConn()
			return
		}

		if err := c.handshake(conn, cred); err != nil {
			c.logger.Error("broker handshake failed",
				"operation", "connect",
				"outcome", "failure",
				"error", err,
			)
			_ = conn.Close()
			c.clearConn()
			if !c.sleep(ctx) {
				return
			}
			continue
		}
		c.setConn(conn, true)
		c.logger.Info("broker connected",
			"operation", "connect",
			"outcome", "success",
			"user_id", cred.UserID,
		)

		c.readLoop(conn)
		c.clearConn()
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("broker connection lost, reconnecting",
			"operation", "reconnect",
			"delay", c.reconnectDelay,
		)
		if !c.sleep(ctx) {
			return
		}
	}
}

// handshake performs CONNECT/CONNECTED then subscribes the per-user queue.
func (c *ConnectionController) handshake(conn ports.BrokerConn, cred domain.Credential) error {
	connect := frame{
		Command: cmdConnect,
		Headers: map[string]string{
			"accept-version": "1.2",
			"heart-beat":     "0,0",
		},
	}
	if err := conn.WriteMessage(connect.marshal()); err != nil {
		return fmt.Errorf("write CONNECT: %w", err)
	}

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("await CONNECTED: %w", err)
		}
		f, err := parseFrame(data)
		if err != nil {
			return err
		}
		switch f.Command {
		case "":
			continue
		case cmdConnected:
		case cmdError:
			return fmt.Errorf("broker rejected connect: %s", f.Headers["message"])
		default:
			return fmt.Errorf("unexpected frame during handshake: %s", f.Command)
		}
		break
	}

	subscribe := frame{
		Command: cmdSubscribe,
		Headers: map[string]string{
			"id":          "0",
			"destination": inboundQueue,
			"ack":         "auto",
		},
	}
	if err := conn.WriteMessage(subscribe.marshal()); err != nil {
		return fmt.Errorf("write SUBSCRIBE: %w", err)
	}
	return nil
}

// readLoop consumes inbound frames until the transport errors. Each MESSAGE
// replaces the latest-message state; there is no buffering or backlog.
func (c *ConnectionController) readLoop(conn ports.BrokerConn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f, err := parseFrame(data)
		if err != nil {
			c.logger.Warn("discarding malformed frame",
				"operation", "receive",
				"outcome", "failure",
				"error", err,
			)
			continue
		}
		switch f.Command {
		case cmdMessage:
			var msg domain.ChatMessage
			if err := json.Unmarshal(f.Body, &msg); err != nil {
				c.logger.Warn("discarding undecodable message",
					"operation", "receive",
					"outcome", "failure",
					"error", err,
				)
				continue
			}
			c.latestMu.Lock()
			c.latest = &msg
			c.latestMu.Unlock()
		case cmdError:
			c.logger.Error("broker error frame",
				"operation", "receive",
				"outcome", "failure",
				"message", f.Headers["message"],
			)
		}
	}
}

func (c *ConnectionController) setConn(conn ports.BrokerConn, connected bool) {
	c.mu.Lock()
	c.conn = conn
	c.connected = connected
	c.mu.Unlock()
}

func (c *ConnectionController) clearConn() {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
}

// sleep waits out the reconnect delay; false means the context was canceled.
func (c *ConnectionController) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.reconnectDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
