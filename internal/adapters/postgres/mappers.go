package postgres

import "github.com/microshop/admin-gateway/internal/domain"

func userFromModel(m userModel) domain.User {
	return domain.User{
		ID:        m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Username:  m.Username,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func productFromModel(m productModel) domain.Product {
	return domain.Product{
		ID:        m.ProductID,
		Name:      m.Name,
		Price:     m.Price,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func orderFromModel(m orderModel) domain.Order {
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, domain.OrderItem{
			ID:          item.ItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return domain.Order{
		ID:           m.OrderID,
		CustomerName: m.CustomerName,
		Status:       domain.OrderStatus(m.Status),
		OrderDate:    m.OrderDate,
		Items:        items,
		Total:        m.Total,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func orderToModel(o domain.Order) orderModel {
	items := make([]orderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemModel{
			ItemID:      item.ID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return orderModel{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		OrderDate:    o.OrderDate,
		Total:        o.Total,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        items,
	}
}
