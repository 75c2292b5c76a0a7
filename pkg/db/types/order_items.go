package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the denormalized line captured at checkout. It is decoupled
// from the live product row: later price or name edits never touch it.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderItems stores the snapshot list as a JSONB column.
type OrderItems []OrderItem

// Value marshals the snapshot into JSONB.
func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		items = OrderItems{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("order items: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the JSONB column back into the snapshot list.
func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = OrderItems{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("order items: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*items = OrderItems{}
		return nil
	}
	return json.Unmarshal(raw, items)
}
