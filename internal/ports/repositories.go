package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/microshop/admin-gateway/internal/domain"
)

// UserRepository persists the managed accounts shown on the users screen.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Create(ctx context.Context, user domain.User) error
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	Create(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository persists orders together with their line items.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	Create(ctx context.Context, order domain.Order) error
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
