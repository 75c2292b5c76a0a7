package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDTO is the wire shape of a single cart line.
type LineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

// CartDTO is the wire shape of a full cart.
type CartDTO struct {
	Items     []LineDTO       `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	IsOpen    bool            `json:"is_open"`
}

// NewCartDTO snapshots the cart into its wire shape.
func NewCartDTO(c *Cart) CartDTO {
	lines := c.Lines()
	items := make([]LineDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, LineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			ImageURL:  line.ImageURL,
			Quantity:  line.Quantity,
		})
	}
	return CartDTO{
		Items:     items,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		IsOpen:    c.IsOpen(),
	}
}
