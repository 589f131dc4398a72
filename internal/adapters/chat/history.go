package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
)

// HistoryClient fetches persisted conversations from the chat collaborator.
// The gateway holds no message history itself; only the latest inbound
// message lives in process.
type HistoryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHistoryClient(baseURL string, httpClient *http.Client) *HistoryClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &HistoryClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

func (c *HistoryClient) History(ctx context.Context, userID, peerID string) ([]domain.ChatMessage, error) {
	endpoint := fmt.Sprintf("%s/chat/history/%s/%s", c.baseURL, url.PathEscape(userID), url.PathEscape(peerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("chat history fetch failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var messages []domain.ChatMessage
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return messages, nil
}
