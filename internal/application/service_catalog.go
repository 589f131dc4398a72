package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/microshop/admin-gateway/internal/domain"
)

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, input UserInput) (domain.User, error) {
	user, err := userFromInput(input)
	if err != nil {
		return domain.User{}, err
	}
	now := s.nowFn()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.publishEvent(ctx, eventTypeUserCreated, map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
	}, user.ID.String())
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, input UserInput) (domain.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	updated, err := userFromInput(input)
	if err != nil {
		return domain.User{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.nowFn()

	if err := s.users.Update(ctx, updated); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, eventTypeUserDeleted, map[string]string{"user_id": id.String()}, id.String())
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return domain.Product{}, err
	}
	now := s.nowFn()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.publishEvent(ctx, eventTypeProductCreated, map[string]string{
		"product_id": product.ID.String(),
		"name":       product.Name,
	}, product.ID.String())
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	updated, err := productFromInput(input)
	if err != nil {
		return domain.Product{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.nowFn()

	if err := s.products.Update(ctx, updated); err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, eventTypeProductDeleted, map[string]string{"product_id": id.String()}, id.String())
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) CreateOrder(ctx context.Context, input OrderInput) (domain.Order, error) {
	order, err := s.orderFromInput(input)
	if err != nil {
		return domain.Order{}, err
	}
	now := s.nowFn()
	order.ID = uuid.New()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}
	s.publishEvent(ctx, eventTypeOrderCreated, map[string]string{
		"order_id": order.ID.String(),
		"customer": order.CustomerName,
	}, order.ID.String())
	return order, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, input OrderInput) (domain.Order, error) {
	existing, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	updated, err := s.orderFromInput(input)
	if err != nil {
		return domain.Order{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.nowFn()

	if err := s.orders.Update(ctx, updated); err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, eventTypeOrderDeleted, map[string]string{"order_id": id.String()}, id.String())
	return nil
}

func userFromInput(input UserInput) (domain.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return domain.User{}, err
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return domain.User{}, invalidInput("username is required")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" && lastName == "" {
		return domain.User{}, invalidInput("a name is required")
	}
	return domain.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     email,
	}, nil
}

func productFromInput(input ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Product{}, invalidInput("product name is required")
	}
	if input.Price < 0 {
		return domain.Product{}, invalidInput("price cannot be negative")
	}
	if input.Stock < 0 {
		return domain.Product{}, invalidInput("stock cannot be negative")
	}
	return domain.Product{
		Name:  name,
		Price: input.Price,
		Stock: input.Stock,
	}, nil
}

func (s *Service) orderFromInput(input OrderInput) (domain.Order, error) {
	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		return domain.Order{}, invalidInput("customer name is required")
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = string(domain.OrderPending)
	}
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, invalidInput("unknown order status")
	}
	if len(input.Items) == 0 {
		return domain.Order{}, invalidInput("order needs at least one item")
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, invalidInput("item quantity must be positive")
		}
		if item.Price < 0 {
			return domain.Order{}, invalidInput("item price cannot be negative")
		}
		productID, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			return domain.Order{}, invalidInput("invalid product id")
		}
		items = append(items, domain.OrderItem{
			ID:          uuid.New(),
			ProductID:   productID,
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	orderDate := s.nowFn()
	if input.OrderDate != nil && !input.OrderDate.IsZero() {
		orderDate = input.OrderDate.UTC()
	}
	order := domain.Order{
		CustomerName: customer,
		Status:       domain.OrderStatus(status),
		OrderDate:    orderDate,
		Items:        items,
	}
	order.Total = order.ComputeTotal()
	return order, nil
}
