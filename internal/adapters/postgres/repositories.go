package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/microshop/admin-gateway/internal/domain"
	"github.com/microshop/admin-gateway/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repositories struct {
	Users    ports.UserRepository
	Products ports.ProductRepository
	Orders   ports.OrderRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    &userRepository{db: db},
		Products: &productRepository{db: db},
		Orders:   &orderRepository{db: db},
	}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromModel(row))
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var row userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return userFromModel(row), nil
}

func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	rec := userModel{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user domain.User) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("user_id = ?", user.ID).Updates(map[string]any{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"username":   user.Username,
		"email":      user.Email,
		"updated_at": user.UpdatedAt,
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&userModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromModel(row))
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var row productModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return productFromModel(row), nil
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	rec := productModel{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	res := r.db.WithContext(ctx).Model(&productModel{}).Where("product_id = ?", product.ID).Updates(map[string]any{
		"name":       product.Name,
		"price":      product.Price,
		"stock":      product.Stock,
		"updated_at": product.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&productModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).Preload("Items").Order("order_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderFromModel(row))
	}
	return orders, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var row orderModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("order_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	return orderFromModel(row), nil
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	rec := orderToModel(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
}

// Update rewrites the order row and replaces its items wholesale. Line items
// are small and fully owned by the order, so diffing is not worth it.
func (r *orderRepository) Update(ctx context.Context, order domain.Order) error {
	rec := orderToModel(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderModel{}).Where("order_id = ?", order.ID).Updates(map[string]any{
			"customer_name": rec.CustomerName,
			"status":        rec.Status,
			"order_date":    rec.OrderDate,
			"total":         rec.Total,
			"updated_at":    rec.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&orderItemModel{}).Error; err != nil {
			return err
		}
		if len(rec.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec.Items).Error
	})
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&orderModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
