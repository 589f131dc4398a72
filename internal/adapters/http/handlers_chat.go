package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/microshop/admin-gateway/internal/application"
	"github.com/microshop/admin-gateway/internal/domain"
)

func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	peer := chi.URLParam(r, "peer")
	messages, err := h.service.ChatHistory(r.Context(), peer)
	if err != nil {
		writeMappedError(w, r, "chat_history", err)
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	writeSuccess(w, http.StatusOK, messages)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req application.SendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, r, "send_message", err)
		return
	}
	message, err := h.service.SendMessage(r.Context(), req)
	if err != nil {
		writeMappedError(w, r, "send_message", err)
		return
	}
	writeSuccess(w, http.StatusAccepted, message)
}

func (h *Handler) handleLatestMessage(w http.ResponseWriter, r *http.Request) {
	message, ok := h.service.LatestMessage()
	if !ok {
		writeError(r.Context(), w, "latest_message", http.StatusNotFound, "NOT_FOUND", "no message received yet", nil)
		return
	}
	writeSuccess(w, http.StatusOK, message)
}
