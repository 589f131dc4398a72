package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/microshop/admin-gateway/internal/domain"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func requestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				httpLogger().ErrorContext(r.Context(), "panic recovered",
					"operation", "recover_middleware",
					"outcome", "failure",
					"panic", recovered,
					"request_id", requestIDFromContext(r.Context()),
				)
				writeJSON(w, http.StatusInternalServerError, errorEnvelope{
					Status:  "error",
					Code:    "INTERNAL_ERROR",
					Message: "unexpected server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)
		httpLogger().InfoContext(r.Context(), "http request",
			"operation", "http_request",
			"outcome", "success",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", recorder.statusCode,
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		)
	})
}

type mappedError struct {
	statusCode int
	code       string
	message    string
}

func mapDomainError(err error) mappedError {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return mappedError{http.StatusBadRequest, "INVALID_INPUT", err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return mappedError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthorized):
		return mappedError{http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"}
	case errors.Is(err, domain.ErrNotFound):
		return mappedError{http.StatusNotFound, "NOT_FOUND", "resource not found"}
	case errors.Is(err, domain.ErrConflict):
		return mappedError{http.StatusConflict, "CONFLICT", "resource already exists"}
	default:
		return mappedError{http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected server error"}
	}
}
