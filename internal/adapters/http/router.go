package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the gateway's HTTP routing tree.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/logout", h.handleLogout)
		r.Get("/session", h.handleSession)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.handleListUsers)
			r.Post("/", h.handleCreateUser)
			r.Get("/{id}", h.handleGetUser)
			r.Put("/{id}", h.handleUpdateUser)
			r.Delete("/{id}", h.handleDeleteUser)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.handleListProducts)
			r.Post("/", h.handleCreateProduct)
			r.Get("/{id}", h.handleGetProduct)
			r.Put("/{id}", h.handleUpdateProduct)
			r.Delete("/{id}", h.handleDeleteProduct)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.handleListOrders)
			r.Post("/", h.handleCreateOrder)
			r.Get("/{id}", h.handleGetOrder)
			r.Put("/{id}", h.handleUpdateOrder)
			r.Delete("/{id}", h.handleDeleteOrder)
		})
	})

	r.Route("/chat/v1", func(r chi.Router) {
		r.Get("/history/{peer}", h.handleChatHistory)
		r.Post("/messages", h.handleSendMessage)
		r.Get("/messages/latest", h.handleLatestMessage)
	})

	return r
}
