package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/microshop/admin-gateway/internal/domain"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *memUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) Create(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return domain.ErrConflict
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func (r *memOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) Create(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) Update(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func newCatalogFixture() (*fixture, *memUserRepo, *memOrderRepo) {
	f := newFixture()
	users := newMemUserRepo()
	orders := newMemOrderRepo()
	f.service.users = users
	f.service.orders = orders
	return f, users, orders
}

func TestCreateUserValidatesAndNormalizes(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()

	user, err := f.service.CreateUser(ctx, UserInput{
		FirstName: "  Ada ",
		LastName:  "Admin",
		Username:  " ada ",
		Email:     "Ada@Example.com",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatalf("created user should get an id")
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email should be lowercased, got %s", user.Email)
	}
	if user.Username != "ada" || user.FirstName != "Ada" {
		t.Fatalf("fields should be trimmed, got %+v", user)
	}
	if !user.CreatedAt.Equal(f.now) {
		t.Fatalf("created_at should come from the injected clock")
	}
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input UserInput
	}{
		{"missing username", UserInput{FirstName: "Ada", Email: "ada@example.com"}},
		{"missing name", UserInput{Username: "ada", Email: "ada@example.com"}},
		{"bad email", UserInput{FirstName: "Ada", Username: "ada", Email: "not-an-email"}},
	}
	for _, tc := range cases {
		if _, err := f.service.CreateUser(ctx, tc.input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestCreateUserDuplicateConflicts(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()
	input := UserInput{FirstName: "Ada", Username: "ada", Email: "ada@example.com"}

	if _, err := f.service.CreateUser(ctx, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := f.service.CreateUser(ctx, input); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate create should conflict, got %v", err)
	}
}

func TestUpdateUserPreservesCreationMetadata(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()

	created, err := f.service.CreateUser(ctx, UserInput{FirstName: "Ada", Username: "ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := f.service.UpdateUser(ctx, created.ID, UserInput{FirstName: "Ada", LastName: "A", Username: "ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update must keep identity and created_at, got %+v", updated)
	}
	if updated.LastName != "A" {
		t.Fatalf("update should apply new fields")
	}
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	if _, err := f.service.GetUser(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOrderComputesTotalAndDefaults(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()

	order, err := f.service.CreateOrder(ctx, OrderInput{
		CustomerName: "Ada Admin",
		Items: []OrderItemInput{
			{ProductID: uuid.NewString(), ProductName: "Widget", Quantity: 2, Price: 500},
			{ProductID: uuid.NewString(), ProductName: "Gadget", Quantity: 1, Price: 1500},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("status should default to pending, got %s", order.Status)
	}
	if order.Total != 2500 {
		t.Fatalf("total = %d, want 2500", order.Total)
	}
	if !order.OrderDate.Equal(f.now) {
		t.Fatalf("order date should default to the injected clock")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()
	validItem := OrderItemInput{ProductID: uuid.NewString(), ProductName: "Widget", Quantity: 1, Price: 100}

	cases := []struct {
		name  string
		input OrderInput
	}{
		{"missing customer", OrderInput{Items: []OrderItemInput{validItem}}},
		{"unknown status", OrderInput{CustomerName: "Ada", Status: "teleported", Items: []OrderItemInput{validItem}}},
		{"no items", OrderInput{CustomerName: "Ada"}},
		{"zero quantity", OrderInput{CustomerName: "Ada", Items: []OrderItemInput{{ProductID: uuid.NewString(), Quantity: 0, Price: 100}}}},
		{"bad product id", OrderInput{CustomerName: "Ada", Items: []OrderItemInput{{ProductID: "nope", Quantity: 1, Price: 100}}}},
	}
	for _, tc := range cases {
		if _, err := f.service.CreateOrder(ctx, tc.input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestDeleteOrderPublishesEvent(t *testing.T) {
	t.Parallel()

	f, _, _ := newCatalogFixture()
	ctx := context.Background()

	order, err := f.service.CreateOrder(ctx, OrderInput{
		CustomerName: "Ada",
		Items:        []OrderItemInput{{ProductID: uuid.NewString(), Quantity: 1, Price: 100}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := f.service.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}

	types := f.events.types()
	if len(types) != 2 || types[0] != eventTypeOrderCreated || types[1] != eventTypeOrderDeleted {
		t.Fatalf("unexpected event sequence: %v", types)
	}
	if _, err := f.service.GetOrder(ctx, order.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted order should be gone, got %v", err)
	}
}
