package http

import (
	"net/http"

	"github.com/microshop/admin-gateway/internal/application"
)

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, r, "login", err)
		return
	}
	if !h.service.Login(r.Context(), req.Username, req.Password) {
		writeError(r.Context(), w, "login", http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials", nil)
		return
	}
	writeSuccess(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(w, r, "register", err)
		return
	}
	if !h.service.Register(r.Context(), req) {
		writeError(r.Context(), w, "register", http.StatusBadRequest, "REGISTRATION_FAILED", "registration was not accepted", nil)
		return
	}
	writeSuccess(w, http.StatusCreated, h.sessionResponse())
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !h.service.RefreshAccessToken(r.Context()) {
		writeError(r.Context(), w, "refresh", http.StatusUnauthorized, "REFRESH_FAILED", "token refresh failed", nil)
		return
	}
	writeSuccess(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	writeSuccess(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) sessionResponse() application.SessionResponse {
	session := h.service.CurrentSession()
	resp := application.SessionResponse{Authenticated: session.IsAuthenticated()}
	if resp.Authenticated {
		resp.User = session.User
		if !session.ExpiresAt.IsZero() {
			expiresAt := session.ExpiresAt
			resp.ExpiresAt = &expiresAt
		}
	}
	return resp
}
