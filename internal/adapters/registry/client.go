package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
)

// Client talks to the external user-registry collaborator. Account creation
// is fully delegated; the gateway never stores or hashes a password.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

// CreateUser POSTs the registration payload; any 2xx means created.
// A 409 maps to domain.ErrConflict so callers can tell duplicates apart.
func (c *Client) CreateUser(ctx context.Context, reg ports.Registration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s", domain.ErrConflict, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("user registry rejected creation: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
}
