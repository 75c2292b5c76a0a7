package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/enums"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes back-office product management plus storefront reads.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	OldPrice    *decimal.Decimal
	NewPrice    decimal.Decimal
	Category    *string
	ImageURLs   []string
	IsSold      bool
}

// UpdateProductInput holds optional mutation values. Unset fields stay
// untouched; the Optional fields additionally carry an explicit null that
// clears the column.
type UpdateProductInput struct {
	Name        *string
	Description types.Optional[string]
	OldPrice    types.Optional[decimal.Decimal]
	NewPrice    *decimal.Decimal
	Category    types.Optional[string]
	ImageURLs   *[]string
	IsSold      *bool
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type changeRecorder interface {
	RecordTx(tx *gorm.DB, table string, op enums.ChangeOp, recordID *uuid.UUID) error
}

type service struct {
	repo     *Repository
	dbClient txRunner
	recorder changeRecorder
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient txRunner, recorder changeRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("change recorder required")
	}
	return &service{repo: repo, dbClient: dbClient, recorder: recorder}, nil
}

// CreateProduct inserts the product and records a change event atomically.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrices(input.OldPrice, &input.NewPrice); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OldPrice:    input.OldPrice,
		NewPrice:    input.NewPrice,
		Category:    input.Category,
		ImageURLs:   input.ImageURLs,
		IsSold:      input.IsSold,
	}
	syncPrimaryImage(product)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.Create(ctx, product)
		if err != nil {
			return err
		}
		return s.recorder.RecordTx(tx, changefeed.TableProducts, enums.ChangeOpInsert, &created.ID)
	}); err != nil {
		return nil, pkgerrors.StoreFailure(err, "creating product")
	}

	return NewProductDTO(product), nil
}

// UpdateProduct applies the partial update and records a change event.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
	}
	if err := validatePrices(input.OldPrice.Value, input.NewPrice); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			return err
		}

		applyUpdate(product, input)
		syncPrimaryImage(product)

		if _, err := txRepo.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return s.recorder.RecordTx(tx, changefeed.TableProducts, enums.ChangeOpUpdate, &product.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.StoreFailure(err, "updating product")
	}

	return NewProductDTO(updated), nil
}

// DeleteProduct removes the product and records a change event.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		deleted, err := txRepo.Delete(ctx, productID)
		if err != nil {
			return err
		}
		if !deleted {
			return gorm.ErrRecordNotFound
		}
		return s.recorder.RecordTx(tx, changefeed.TableProducts, enums.ChangeOpDelete, &productID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.StoreFailure(err, "deleting product")
	}
	return nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.StoreFailure(err, "loading product")
	}
	return NewProductDTO(product), nil
}

// ListProducts returns the full catalog, newest first.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.StoreFailure(err, "listing products")
	}
	return NewProductDTOs(products), nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description.Set {
		product.Description = input.Description.Value
	}
	if input.OldPrice.Set {
		product.OldPrice = input.OldPrice.Value
	}
	if input.NewPrice != nil {
		product.NewPrice = *input.NewPrice
	}
	if input.Category.Set {
		product.Category = input.Category.Value
	}
	if input.ImageURLs != nil {
		product.ImageURLs = *input.ImageURLs
	}
	if input.IsSold != nil {
		product.IsSold = *input.IsSold
	}
}

// syncPrimaryImage keeps image_url equal to the first gallery entry for
// clients that predate the gallery column.
func syncPrimaryImage(product *models.Product) {
	if len(product.ImageURLs) == 0 {
		product.ImageURL = nil
		return
	}
	first := product.ImageURLs[0]
	product.ImageURL = &first
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	return nil
}

func validatePrices(oldPrice, newPrice *decimal.Decimal) error {
	if newPrice != nil && newPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "new_price cannot be negative")
	}
	if oldPrice != nil && oldPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "old_price cannot be negative")
	}
	return nil
}
