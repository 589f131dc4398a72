package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Username  string    `gorm:"column:username"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "catalog_users" }

type productModel struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name"`
	Price     int64     `gorm:"column:price"`
	Stock     int       `gorm:"column:stock"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

type orderModel struct {
	OrderID      uuid.UUID        `gorm:"column:order_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName string           `gorm:"column:customer_name"`
	Status       string           `gorm:"column:status"`
	OrderDate    time.Time        `gorm:"column:order_date"`
	Total        int64            `gorm:"column:total"`
	CreatedAt    time.Time        `gorm:"column:created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at"`
	Items        []orderItemModel `gorm:"foreignKey:OrderID;references:OrderID"`
}

func (orderModel) TableName() string { return "orders" }

type orderItemModel struct {
	ItemID      uuid.UUID `gorm:"column:item_id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id"`
	ProductID   uuid.UUID `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name"`
	Quantity    int       `gorm:"column:quantity"`
	Price       int64     `gorm:"column:price"`
}

func (orderItemModel) TableName() string { return "order_items" }
