package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice    decimal.Decimal  `json:"new_price"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	ImageURLs   []string         `json:"image_urls"`
	IsSold      bool             `json:"is_sold"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	urls := append([]string{}, product.ImageURLs...)
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		OldPrice:    product.OldPrice,
		NewPrice:    product.NewPrice,
		Category:    product.Category,
		ImageURL:    product.ImageURL,
		ImageURLs:   urls,
		IsSold:      product.IsSold,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductDTOs maps a model slice into DTOs.
func NewProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return dtos
}
