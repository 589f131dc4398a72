package application

import (
	"time"

	"github.com/microshop/admin-gateway/internal/domain"
)

type Config struct {
	// RefreshWindow is how close to expiry the access token must be before
	// a refresh tick acts. Defaults to 60 seconds.
	RefreshWindow time.Duration
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.AuthUser `json:"user,omitempty"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
}

type UserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type ProductInput struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type OrderItemInput struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

type OrderInput struct {
	CustomerName string           `json:"customerName"`
	Status       string           `json:"status"`
	OrderDate    *time.Time       `json:"orderDate"`
	Items        []OrderItemInput `json:"items"`
}

type SendMessageRequest struct {
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}
