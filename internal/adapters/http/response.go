package http

import (
	"context"
	"encoding/json"
	"net/http"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, successEnvelope{Status: "success", Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, operation string, statusCode int, code, message string, err error) {
	logHTTPOperationError(ctx, operation, statusCode, code, message, err)
	writeJSON(w, statusCode, errorEnvelope{Status: "error", Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
