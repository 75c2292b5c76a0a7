package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. ImageURL mirrors the first entry of
// ImageURLs for clients that predate the gallery column.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	OldPrice    *decimal.Decimal `gorm:"column:old_price;type:numeric(12,2)"`
	NewPrice    decimal.Decimal  `gorm:"column:new_price;type:numeric(12,2);not null"`
	Category    *string          `gorm:"column:category"`
	ImageURL    *string          `gorm:"column:image_url"`
	ImageURLs   pq.StringArray   `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	IsSold      bool             `gorm:"column:is_sold;not null;default:false"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
