package application

import (
	"context"
	"strings"

	"github.com/microshop/admin-gateway/internal/domain"
)

// ChatHistory proxies the conversation between the current user and peer
// from the external history collaborator.
func (s *Service) ChatHistory(ctx context.Context, peerID string) ([]domain.ChatMessage, error) {
	sess := s.CurrentSession()
	if !sess.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(peerID) == "" {
		return nil, invalidInput("peer id is required")
	}
	return s.history.History(ctx, sess.User.ID, peerID)
}

// SendMessage stamps and publishes an outbound chat message. The returned
// message is what the caller appends locally; delivery is optimistic and a
// disconnected gateway drops the publish with a warning only.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (domain.ChatMessage, error) {
	sess := s.CurrentSession()
	if !sess.IsAuthenticated() {
		return domain.ChatMessage{}, domain.ErrUnauthorized
	}
	receiver := strings.TrimSpace(req.Receiver)
	if receiver == "" {
		return domain.ChatMessage{}, invalidInput("receiver is required")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return domain.ChatMessage{}, invalidInput("content is required")
	}

	msg := domain.ChatMessage{
		Sender:    sess.User.ID,
		Receiver:  receiver,
		Content:   content,
		Timestamp: s.nowFn(),
	}
	s.gateway.Publish(msg)
	return msg, nil
}

// LatestMessage exposes the most recently received inbound message.
func (s *Service) LatestMessage() (domain.ChatMessage, bool) {
	return s.gateway.Latest()
}
