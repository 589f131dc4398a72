package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/microshop/admin-gateway/internal/application"
)

// Handler exposes the gateway's HTTP surface over the application service.
type Handler struct {
	service *application.Service
	ready   func() error
}

func NewHandler(service *application.Service, ready func() error) *Handler {
	return &Handler{service: service, ready: ready}
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			writeError(r.Context(), w, "readyz", http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable", err)
			return
		}
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func writeInvalidBody(w http.ResponseWriter, r *http.Request, operation string, err error) {
	writeError(r.Context(), w, operation, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", err)
}

func writeMappedError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	mapped := mapDomainError(err)
	writeError(r.Context(), w, operation, mapped.statusCode, mapped.code, mapped.message, err)
}
