package broker

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/microshop/admin-gateway/internal/ports"
)

// WebsocketDialer opens the broker transport with gorilla/websocket. The
// access token rides as a query parameter on the handshake URL, matching
// the broker's auth contract.
type WebsocketDialer struct {
	endpoint string
	dialer   *websocket.Dialer
}

func NewWebsocketDialer(endpoint string) *WebsocketDialer {
	return &WebsocketDialer{
		endpoint: strings.TrimSpace(endpoint),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (d *WebsocketDialer) Dial(ctx context.Context, token string) (ports.BrokerConn, error) {
	endpoint := d.endpoint + "?token=" + url.QueryEscape(token)
	conn, resp, err := d.dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
