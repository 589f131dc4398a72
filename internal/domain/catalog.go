package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a managed account row on the users screen.
// Distinct from AuthUser: this is dashboard data, not the caller's identity.
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID        uuid.UUID
	Name      string
	Price     int64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether raw is one of the five known states.
func ValidOrderStatus(raw string) bool {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

type OrderItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       int64
}

type Order struct {
	ID           uuid.UUID
	CustomerName string
	Status       OrderStatus
	OrderDate    time.Time
	Items        []OrderItem
	Total        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ComputeTotal sums quantity*price across items. Orders store the computed
// value so list screens never re-derive it.
func (o Order) ComputeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += int64(item.Quantity) * item.Price
	}
	return total
}
