package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/db/types"
	"github.com/novalux/backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is written once at checkout; afterwards only Status changes (or the
// row is deleted). Items and TotalPrice are frozen at submission time.
type Order struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName string             `gorm:"column:customer_name;not null"`
	Phone        string             `gorm:"column:phone;not null"`
	Address      string             `gorm:"column:address;not null"`
	DeliveryType enums.DeliveryType `gorm:"column:delivery_type;not null"`
	Items        types.OrderItems   `gorm:"column:items;type:jsonb;not null"`
	TotalPrice   decimal.Decimal    `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status       enums.OrderStatus  `gorm:"column:status;not null;default:pending"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
