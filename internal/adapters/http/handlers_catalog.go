package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/microshop/admin-gateway/internal/application"
)

func pathID(w http.ResponseWriter, r *http.Request, operation string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, operation, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeMappedError(w, r, "list_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, users)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "get_user")
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeMappedError(w, r, "get_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, user)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var input application.UserInput
	if err := decodeBody(r, &input); err != nil {
		writeInvalidBody(w, r, "create_user", err)
		return
	}
	user, err := h.service.CreateUser(r.Context(), input)
	if err != nil {
		writeMappedError(w, r, "create_user", err)
		return
	}
	writeSuccess(w, http.StatusCreated, user)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "update_user")
	if !ok {
		return
	}
	var input application.UserInput
	if err := decodeBody(r, &input); err != nil {
		writeInvalidBody(w, r, "update_user", err)
		return
	}
	user, err := h.service.UpdateUser(r.Context(), id, input)
	if err != nil {
		writeMappedError(w, r, "update_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "delete_user")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeMappedError(w, r, "delete_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeMappedError(w, r, "list_products", err)
		return
	}
	writeSuccess(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "get_product")
	if !ok {
		return
	}
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		writeMappedError(w, r, "get_product", err)
		return
	}
	writeSuccess(w, http.StatusOK, product)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input application.ProductInput
	if err := decodeBody(r, &input); err != nil {
		writeInvalidBody(w, r, "create_product", err)
		return
	}
	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		writeMappedError(w, r, "create_product", err)
		return
	}
	writeSuccess(w, http.StatusCreated, product)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "update_product")
	if !ok {
		return
	}
	var input application.ProductInput
	if err := decodeBody(r, &input); err != nil {
		writeInvalidBody(w, r, "update_product", err)
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), id, input)
	if err != nil {
		writeMappedError(w, r, "update_product", err)
		return
	}
	writeSuccess(w, http.StatusOK, product)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "delete_product")
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeMappedError(w, r, "delete_product", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeMappedError(w, r, "list_orders", err)
		return
	}
	writeSuccess(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "get_order")
	if !ok {
		return
	}
	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeMappedError(w, r, "get_order", err)
		return
	}
	writeSuccess(w, http.StatusOK, order)
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var input application.OrderInput
	if err := decodeBody(r, &input); err != nil {
		writeInvalidBody(w, r, "create_order", err)
		return
	}
	order, err := h.service.CreateOrder(r.Context(), input)
	if err != nil {
		writeMappedError(w, r, "create_order", err)
		return
	}
	writeSuccess(w, http.StatusCreated, order)
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "update_order")
	if !ok {
		return
	}
	var input application.OrderInput
	if err := decodeBody(r, &input); err != nil {
		writeInvalidBody(w, r, "update_order", err)
		return
	}
	order, err := h.service.UpdateOrder(r.Context(), id, input)
	if err != nil {
		writeMappedError(w, r, "update_order", err)
		return
	}
	writeSuccess(w, http.StatusOK, order)
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "delete_order")
	if !ok {
		return
	}
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		writeMappedError(w, r, "delete_order", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
