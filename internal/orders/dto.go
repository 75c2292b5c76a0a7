package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/db/types"
	"github.com/novalux/backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderItemDTO exposes a frozen checkout line.
type OrderItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderDTO represents the order payload returned to the back office.
type OrderDTO struct {
	ID           uuid.UUID          `json:"id"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	DeliveryType enums.DeliveryType `json:"delivery_type"`
	Items        []OrderItemDTO     `json:"items"`
	TotalPrice   decimal.Decimal    `json:"total_price"`
	Status       enums.OrderStatus  `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	return &OrderDTO{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Address:      order.Address,
		DeliveryType: order.DeliveryType,
		Items:        newOrderItemDTOs(order.Items),
		TotalPrice:   order.TotalPrice,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// NewOrderDTOs maps a model slice into DTOs.
func NewOrderDTOs(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *NewOrderDTO(&orders[i]))
	}
	return dtos
}

func newOrderItemDTOs(items types.OrderItems) []OrderItemDTO {
	dtos := make([]OrderItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return dtos
}
